package main

import (
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/kwv/aerialmatch/engine"
)

// PreviewRenderer draws a side-by-side query/reference Pattern visualization
// with the match score and transform as a label, for the debug /preview
// endpoint and the --render-patterns CLI mode.
type PreviewRenderer struct {
	Padding int
}

// NewPreviewRenderer returns a renderer with the default padding.
func NewPreviewRenderer() *PreviewRenderer {
	return &PreviewRenderer{Padding: 16}
}

// Render draws query (left), transformed by the match's Transform into the
// reference's frame for visual alignment, and reference (right), with a
// text label below.
func (r *PreviewRenderer) Render(query, reference *engine.Pattern, result engine.MatchResult) image.Image {
	size := query.Size
	labelHeight := 20
	width := size*2 + r.Padding*3
	height := size + r.Padding*2 + labelHeight

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for i := range img.Pix {
		img.Pix[i] = 255
	}

	aligned := engine.Apply(result.Transform, query)
	drawPattern(img, aligned, r.Padding, r.Padding, color.RGBA{20, 20, 20, 255})

	drawPattern(img, reference, r.Padding*2+size, r.Padding, color.RGBA{180, 30, 30, 255})

	label := fmt.Sprintf("score=%.1f scale=%.2f angle=%.1f tx=%d ty=%d",
		result.ScorePercent(), result.Transform.Scale, result.Transform.AngleDeg,
		result.Transform.Tx, result.Transform.Ty)
	drawText(img, r.Padding, height-6, label, color.RGBA{0, 0, 0, 255})

	return img
}

// SavePNG writes img as a PNG file at path.
func (r *PreviewRenderer) SavePNG(path string, img image.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating preview PNG: %w", err)
	}
	defer func() { _ = f.Close() }()
	if err := png.Encode(f, img); err != nil {
		return fmt.Errorf("encoding preview PNG: %w", err)
	}
	return nil
}

// drawPattern paints a Pattern's set bits into img at the given offset.
func drawPattern(img *image.RGBA, p *engine.Pattern, offsetX, offsetY int, c color.RGBA) {
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if p.At(x, y) {
				img.SetRGBA(offsetX+x, offsetY+y, c)
			}
		}
	}
}

// drawText renders text onto an image at the specified position.
func drawText(img *image.RGBA, x, y int, text string, c color.RGBA) {
	d := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(c),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(text)
}
