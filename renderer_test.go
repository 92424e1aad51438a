package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func solidPattern(size int) *engine.Pattern {
	p := engine.NewPattern(size)
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			p.Set(x, y)
		}
	}
	return p
}

func TestRenderProducesExpectedDimensions(t *testing.T) {
	r := NewPreviewRenderer()
	query := solidPattern(32)
	reference := solidPattern(32)

	img := r.Render(query, reference, engine.MatchResult{Transform: engine.Transform{Scale: 1}, IoU: 0.75})

	bounds := img.Bounds()
	wantWidth := 32*2 + r.Padding*3
	wantHeight := 32 + r.Padding*2 + 20
	if bounds.Dx() != wantWidth || bounds.Dy() != wantHeight {
		t.Errorf("Render size = %dx%d, want %dx%d", bounds.Dx(), bounds.Dy(), wantWidth, wantHeight)
	}
}

func TestSavePNGWritesFile(t *testing.T) {
	r := NewPreviewRenderer()
	img := r.Render(solidPattern(16), solidPattern(16), engine.MatchResult{Transform: engine.Transform{Scale: 1}})

	path := filepath.Join(t.TempDir(), "preview.png")
	if err := r.SavePNG(path, img); err != nil {
		t.Fatalf("SavePNG: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("stat preview file: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected non-empty PNG file")
	}
}
