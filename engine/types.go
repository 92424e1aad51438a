// Package engine implements the contour-based holistic aerial-to-satellite
// image matching pipeline: edge/contour extraction, pattern rasterization,
// affine transform search, and the facade that ranks candidate references
// against one query image.
package engine

import (
	"image"
	"math"
)

// Point is an integer pixel coordinate.
type Point struct {
	X, Y int
}

// Raster is an 8-bit RGB image in memory, immutable within one call.
type Raster struct {
	Width, Height int
	// Pix holds width*height*3 bytes, row-major, RGB per pixel.
	Pix []byte
}

// NewRaster builds a Raster from a standard library image, converting to
// RGB if necessary.
func NewRaster(img image.Image) *Raster {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	r := &Raster{Width: w, Height: h, Pix: make([]byte, w*h*3)}
	i := 0
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, _ := img.At(x, y).RGBA()
			r.Pix[i] = byte(cr >> 8)
			r.Pix[i+1] = byte(cg >> 8)
			r.Pix[i+2] = byte(cb >> 8)
			i += 3
		}
	}
	return r
}

// At returns the RGB triple at (x, y).
func (r *Raster) At(x, y int) (byte, byte, byte) {
	i := (y*r.Width + x) * 3
	return r.Pix[i], r.Pix[i+1], r.Pix[i+2]
}

// Valid reports whether the raster has sane, non-zero dimensions and a
// correctly sized pixel buffer.
func (r *Raster) Valid() bool {
	if r == nil || r.Width <= 0 || r.Height <= 0 {
		return false
	}
	return len(r.Pix) == r.Width*r.Height*3
}

// Contour is an ordered polyline traced along the boundary of a connected
// edge component, in image coordinates.
type Contour struct {
	Points []Point
}

// Perimeter returns the sum of Euclidean segment lengths, treating the
// contour as closed (last point connects back to the first).
func (c Contour) Perimeter() float64 {
	n := len(c.Points)
	if n < 2 {
		return 0
	}
	var total float64
	for i := 0; i < n; i++ {
		p := c.Points[i]
		q := c.Points[(i+1)%n]
		dx := float64(q.X - p.X)
		dy := float64(q.Y - p.Y)
		total += math.Hypot(dx, dy)
	}
	return total
}

// Area returns the signed polygon area via the shoelace formula.
func (c Contour) Area() float64 {
	n := len(c.Points)
	if n < 3 {
		return 0
	}
	var sum float64
	for i := 0; i < n; i++ {
		p := c.Points[i]
		q := c.Points[(i+1)%n]
		sum += float64(p.X)*float64(q.Y) - float64(q.X)*float64(p.Y)
	}
	return sum / 2
}

// BoundingBox returns the tight integer bounding box of the contour's
// points. ok is false for an empty contour.
func (c Contour) BoundingBox() (minX, minY, maxX, maxY int, ok bool) {
	if len(c.Points) == 0 {
		return 0, 0, 0, 0, false
	}
	minX, minY = c.Points[0].X, c.Points[0].Y
	maxX, maxY = minX, minY
	for _, p := range c.Points[1:] {
		if p.X < minX {
			minX = p.X
		}
		if p.X > maxX {
			maxX = p.X
		}
		if p.Y < minY {
			minY = p.Y
		}
		if p.Y > maxY {
			maxY = p.Y
		}
	}
	return minX, minY, maxX, maxY, true
}

// Centroid returns the unweighted mean of the contour's vertices.
func (c Contour) Centroid() (float64, float64) {
	if len(c.Points) == 0 {
		return 0, 0
	}
	var sx, sy float64
	for _, p := range c.Points {
		sx += float64(p.X)
		sy += float64(p.Y)
	}
	n := float64(len(c.Points))
	return sx / n, sy / n
}

// ContourSet is all contours extracted from one raster in one call.
type ContourSet struct {
	Contours      []Contour
	SourceWidth   int
	SourceHeight  int
}

// Empty reports whether no contours survived extraction.
func (cs ContourSet) Empty() bool {
	return len(cs.Contours) == 0
}

// Pattern is a centered, fixed-size single-channel binary image encoding a
// ContourSet, ready for transform search. Bits is a row-major S*S bitmap,
// one byte per pixel (0 or 1) for simplicity of sampling.
type Pattern struct {
	Size int
	Bits []byte
}

// NewPattern allocates an all-zero S×S Pattern.
func NewPattern(size int) *Pattern {
	return &Pattern{Size: size, Bits: make([]byte, size*size)}
}

// At returns whether the pixel at (x, y) is drawn. Out-of-bounds is false.
func (p *Pattern) At(x, y int) bool {
	if x < 0 || y < 0 || x >= p.Size || y >= p.Size {
		return false
	}
	return p.Bits[y*p.Size+x] != 0
}

// Set marks the pixel at (x, y) as drawn. Out-of-bounds is a no-op.
func (p *Pattern) Set(x, y int) {
	if x < 0 || y < 0 || x >= p.Size || y >= p.Size {
		return
	}
	p.Bits[y*p.Size+x] = 1
}

// Count returns the number of drawn pixels.
func (p *Pattern) Count() int {
	n := 0
	for _, b := range p.Bits {
		if b != 0 {
			n++
		}
	}
	return n
}

// Centroid returns the mean (x, y) of drawn pixels. ok is false when the
// pattern is entirely zero.
func (p *Pattern) Centroid() (cx, cy float64, ok bool) {
	var sx, sy, n float64
	for y := 0; y < p.Size; y++ {
		for x := 0; x < p.Size; x++ {
			if p.At(x, y) {
				sx += float64(x)
				sy += float64(y)
				n++
			}
		}
	}
	if n == 0 {
		return 0, 0, false
	}
	return sx / n, sy / n, true
}

// MatchResult is the outcome of matching one query Pattern to one
// reference Pattern.
type MatchResult struct {
	Transform            Transform
	IoU                   float64
	QueryFeatureless      bool
	ReferenceFeatureless  bool
	FetchError            bool
}

// ScorePercent returns the caller-facing score, 100 * IoU.
func (m MatchResult) ScorePercent() float64 {
	return 100 * m.IoU
}

// PerReferenceResult pairs a reference index with its MatchResult.
type PerReferenceResult struct {
	Index  int
	Result MatchResult
}

// RankedMatches is the outcome of matching one query to N references,
// sorted by score descending.
type RankedMatches struct {
	BestIndex       int
	BestScore       float64
	QueryFeatureless bool
	PerReference    []PerReferenceResult
}
