package engine

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < epsilon
}

func TestApplyToPoint(t *testing.T) {
	tests := []struct {
		name     string
		x, y     float64
		matrix   AffineMatrix
		wantX    float64
		wantY    float64
	}{
		{"identity", 10, 20, IdentityMatrix(), 10, 20},
		{"translation", 5, 5, AffineMatrix{A: 1, D: 1, Tx: 10, Ty: 15}, 15, 20},
		{"scale 2x", 3, 4, AffineMatrix{A: 2, D: 2}, 6, 8},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gx, gy := ApplyToPoint(tt.x, tt.y, tt.matrix)
			if !almostEqual(gx, tt.wantX) || !almostEqual(gy, tt.wantY) {
				t.Errorf("ApplyToPoint() = (%v, %v), want (%v, %v)", gx, gy, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestInvertMatrixIsInverse(t *testing.T) {
	m := Transform{Scale: 1.5, AngleDeg: 37, Tx: 4, Ty: -6}.Matrix(512)
	inv := Invert(m)
	composed := Multiply(inv, m)
	identity := IdentityMatrix()
	if !almostEqual(composed.A, identity.A) || !almostEqual(composed.D, identity.D) ||
		!almostEqual(composed.Tx, identity.Tx) || !almostEqual(composed.Ty, identity.Ty) {
		t.Errorf("Invert(m) * m = %+v, want identity", composed)
	}
}

func TestTransformMatrixIdentity(t *testing.T) {
	m := IdentityTransform().Matrix(512)
	if m != IdentityMatrix() {
		t.Errorf("IdentityTransform().Matrix() = %+v, want identity", m)
	}
}

func TestApplyIdentityPreservesPattern(t *testing.T) {
	p := NewPattern(16)
	p.Set(4, 4)
	p.Set(5, 6)

	out := Apply(IdentityTransform(), p)
	for i := range p.Bits {
		if p.Bits[i] != out.Bits[i] {
			t.Fatalf("Apply(identity) changed pixel %d: %d -> %d", i, p.Bits[i], out.Bits[i])
		}
	}
}

func TestApplyTranslation(t *testing.T) {
	p := NewPattern(16)
	p.Set(4, 4)

	out := Apply(Transform{Scale: 1, Tx: 3, Ty: 2}, p)
	if !out.At(7, 6) {
		t.Errorf("expected pixel (4,4) shifted to (7,6) to be set")
	}
	if out.At(4, 4) {
		t.Errorf("expected original pixel (4,4) to be cleared after translation")
	}
}

func TestAngularDistance(t *testing.T) {
	tests := []struct {
		deg  float64
		want float64
	}{
		{0, 0},
		{10, 10},
		{-10, 10},
		{350, 10},
		{180, 180},
	}
	for _, tt := range tests {
		if got := angularDistance(tt.deg); !almostEqual(got, tt.want) {
			t.Errorf("angularDistance(%v) = %v, want %v", tt.deg, got, tt.want)
		}
	}
}
