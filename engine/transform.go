package engine

import "math"

// AffineMatrix is a 2D affine transform: x' = A*x + B*y + Tx,
// y' = C*x + D*y + Ty.
type AffineMatrix struct {
	A, B, Tx float64
	C, D, Ty float64
}

// IdentityMatrix returns the affine identity.
func IdentityMatrix() AffineMatrix {
	return AffineMatrix{A: 1, B: 0, Tx: 0, C: 0, D: 1, Ty: 0}
}

// Multiply composes two affine transforms: result = m1 * m2. Applying the
// result is equivalent to applying m2 first, then m1.
func Multiply(m1, m2 AffineMatrix) AffineMatrix {
	return AffineMatrix{
		A:  m1.A*m2.A + m1.B*m2.C,
		B:  m1.A*m2.B + m1.B*m2.D,
		Tx: m1.A*m2.Tx + m1.B*m2.Ty + m1.Tx,
		C:  m1.C*m2.A + m1.D*m2.C,
		D:  m1.C*m2.B + m1.D*m2.D,
		Ty: m1.C*m2.Tx + m1.D*m2.Ty + m1.Ty,
	}
}

// Invert returns the inverse of an affine transform, or the identity if
// the matrix is singular.
func Invert(m AffineMatrix) AffineMatrix {
	det := m.A*m.D - m.B*m.C
	if math.Abs(det) < 1e-10 {
		return IdentityMatrix()
	}
	invDet := 1.0 / det
	return AffineMatrix{
		A:  m.D * invDet,
		B:  -m.B * invDet,
		Tx: (m.B*m.Ty - m.D*m.Tx) * invDet,
		C:  -m.C * invDet,
		D:  m.A * invDet,
		Ty: (m.C*m.Tx - m.A*m.Ty) * invDet,
	}
}

// ApplyToPoint maps a point through the affine matrix.
func ApplyToPoint(x, y float64, m AffineMatrix) (float64, float64) {
	return m.A*x + m.B*y + m.Tx, m.C*x + m.D*y + m.Ty
}

// Transform is the similarity transform family explored by Transform
// Search: uniform scale, rotation (degrees), and integer translation.
type Transform struct {
	Scale   float64
	AngleDeg float64
	Tx, Ty  int
}

// IdentityTransform is the no-op transform (scale=1, angle=0, tx=ty=0).
func IdentityTransform() Transform {
	return Transform{Scale: 1, AngleDeg: 0, Tx: 0, Ty: 0}
}

// Matrix builds the AffineMatrix for this Transform, rotating and scaling
// about the center of a size x size pattern, then applying the integer
// translation.
func (t Transform) Matrix(size int) AffineMatrix {
	center := float64(size) / 2
	rad := t.AngleDeg * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)

	a := t.Scale * cos
	b := -t.Scale * sin
	c := t.Scale * sin
	d := t.Scale * cos

	tx := center - (a*center + b*center) + float64(t.Tx)
	ty := center - (c*center + d*center) + float64(t.Ty)

	return AffineMatrix{A: a, B: b, Tx: tx, C: c, D: d, Ty: ty}
}

// Apply transforms a query Pattern by t, producing a new S×S Pattern.
// Implemented as inverse mapping with nearest-neighbor sampling: for every
// output pixel, the pre-image under t is looked up in q; pixels whose
// pre-image falls outside q are 0.
func Apply(t Transform, q *Pattern) *Pattern {
	size := q.Size
	out := NewPattern(size)
	m := Invert(t.Matrix(size))

	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			sx, sy := ApplyToPoint(float64(x), float64(y), m)
			ix := int(math.Round(sx))
			iy := int(math.Round(sy))
			if q.At(ix, iy) {
				out.Set(x, y)
			}
		}
	}
	return out
}
