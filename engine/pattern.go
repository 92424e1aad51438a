package engine

import "math"

// Rasterizer turns a ContourSet into a centered, fixed-size binary
// Pattern.
type Rasterizer struct {
	// Size is the Pattern's side length S. Defaults to 512 when zero.
	Size int

	// Margin is the fraction of S the pattern's longer bounding-box axis
	// should occupy after scaling. Defaults to 0.9 when zero.
	Margin float64
}

// DefaultRasterizer returns a Rasterizer with its default size and margin.
func DefaultRasterizer() Rasterizer {
	return Rasterizer{Size: 512, Margin: 0.9}
}

// Rasterize computes the tight bounding box of all contour points, scales
// uniformly to fit Margin*Size on the longer axis, centers the result, and
// draws every contour as a Bresenham polyline onto the bitmap.
func (r Rasterizer) Rasterize(cs ContourSet) *Pattern {
	size := r.Size
	if size == 0 {
		size = 512
	}
	margin := r.Margin
	if margin == 0 {
		margin = 0.9
	}

	pattern := NewPattern(size)
	if cs.Empty() {
		return pattern
	}

	minX, minY := cs.Contours[0].Points[0].X, cs.Contours[0].Points[0].Y
	maxX, maxY := minX, minY
	for _, c := range cs.Contours {
		for _, p := range c.Points {
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
	}

	bw := float64(maxX - minX)
	bh := float64(maxY - minY)
	longer := bw
	if bh > longer {
		longer = bh
	}
	if longer == 0 {
		longer = 1
	}

	scale := (float64(size) * margin) / longer
	bcx := float64(minX) + bw/2
	bcy := float64(minY) + bh/2
	half := float64(size) / 2

	transformX := func(x int) int {
		return int((float64(x)-bcx)*scale + half)
	}
	transformY := func(y int) int {
		return int((float64(y)-bcy)*scale + half)
	}

	for _, c := range cs.Contours {
		pts := c.Points
		for i := 0; i < len(pts); i++ {
			p := pts[i]
			q := pts[(i+1)%len(pts)]
			x0, y0 := transformX(p.X), transformY(p.Y)
			x1, y1 := transformX(q.X), transformY(q.Y)
			drawLine(pattern, x0, y0, x1, y1)
		}
	}

	return recenterOnCentroid(pattern)
}

// recenterOnCentroid nudges a pattern by an integer (dx, dy) so its
// drawn-pixel centroid lands on the pattern's center, correcting for the
// skew a bounding-box-centered rasterization leaves on asymmetric
// contours.
func recenterOnCentroid(p *Pattern) *Pattern {
	cx, cy, ok := p.Centroid()
	if !ok {
		return p
	}
	half := float64(p.Size) / 2
	dx := int(math.Round(half - cx))
	dy := int(math.Round(half - cy))
	if dx == 0 && dy == 0 {
		return p
	}
	return shiftPattern(p, dx, dy)
}

// drawLine rasterizes a 1-pixel-wide segment using Bresenham's algorithm.
func drawLine(p *Pattern, x0, y0, x1, y1 int) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx, sy := 1, 1
	if x0 > x1 {
		sx = -1
	}
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		p.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
