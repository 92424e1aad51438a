package engine

// visitKey uniquely identifies an edge-following state (pixel index +
// facing direction), preventing the tracer from retracing the same edge.
type visitKey struct {
	idx, dir int
}

// traceContours scans a dense w x h boolean edge grid and traces one
// ordered polyline per connected boundary, with the right-hand rule.
// Tracing is 4-connected (N, E, S, W steps only): edge pixels joined only
// diagonally are not followed, and a pixel with no 4-neighbour becomes a
// degenerate single-point contour.
func traceContours(grid []bool, w, h int) []Contour {
	var contours []Contour
	seen := make(map[visitKey]bool)

	idx := func(x, y int) int { return y*w + x }
	isSet := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return grid[idx(x, y)]
	}

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if !isSet(x, y) {
				continue
			}

			hasNeighbor := isSet(x-1, y) || isSet(x+1, y) || isSet(x, y-1) || isSet(x, y+1)
			if !hasNeighbor {
				key := visitKey{idx(x, y), 0}
				if !seen[key] {
					for dir := 0; dir < 4; dir++ {
						seen[visitKey{idx(x, y), dir}] = true
					}
					contours = append(contours, Contour{Points: []Point{{x, y}, {x, y}, {x, y}}})
				}
				continue
			}

			neighbors := []struct{ dx, dy, dir int }{
				{-1, 0, 3},
				{1, 0, 1},
				{0, -1, 0},
				{0, 1, 2},
			}
			for _, n := range neighbors {
				if isSet(x+n.dx, y+n.dy) {
					continue
				}
				key := visitKey{idx(x, y), n.dir}
				if seen[key] {
					continue
				}
				path := traceBoundary(x, y, n.dir, grid, w, h, seen)
				if len(path) > 2 {
					contours = append(contours, Contour{Points: path})
				}
			}
		}
	}
	return contours
}

// traceBoundary follows one boundary using the right-hand rule starting
// from (startX, startY) while facing startFacing (0=N, 1=E, 2=S, 3=W).
func traceBoundary(startX, startY, startFacing int, grid []bool, w, h int, seen map[visitKey]bool) []Point {
	var path []Point
	curX, curY := startX, startY
	facing := startFacing

	isSet := func(x, y int) bool {
		if x < 0 || x >= w || y < 0 || y >= h {
			return false
		}
		return grid[y*w+x]
	}

	dirs := [4]struct{ dx, dy int }{
		{0, -1}, // N
		{1, 0},  // E
		{0, 1},  // S
		{-1, 0}, // W
	}

	for {
		key := visitKey{curY*w + curX, facing}
		if seen[key] {
			if curX == startX && curY == startY && len(path) > 0 {
				path = append(path, Point{curX, curY})
			}
			break
		}
		seen[key] = true
		path = append(path, Point{curX, curY})

		startScan := (facing - 1 + 4) % 4
		found := false
		for i := 0; i < 4; i++ {
			scanDir := (startScan + i) % 4
			nx, ny := curX+dirs[scanDir].dx, curY+dirs[scanDir].dy
			if isSet(nx, ny) {
				curX, curY = nx, ny
				facing = scanDir
				found = true
				break
			}
		}
		if !found {
			break
		}
		if len(path) > 200000 {
			break
		}
	}
	return path
}

// Extractor runs the edge and contour extraction pipeline: luminance,
// Gaussian smoothing, Canny-style hysteresis edge detection, boundary
// tracing, and area/perimeter filtering.
type Extractor struct {
	// Simplify enables an opt-in Douglas-Peucker simplification pass over
	// each traced contour before area/perimeter filtering. Zero value
	// (disabled) preserves the raw traced polyline.
	Simplify bool

	// SimplifyTolerance is the RDP epsilon in pixels, used only when
	// Simplify is true.
	SimplifyTolerance float64

	// MinAreaFraction is the minimum |area| / (width*height) a contour
	// must clear to survive filtering. Defaults to 0.0005 when zero.
	MinAreaFraction float64

	// MinPerimeter is the minimum pixel perimeter a contour must clear to
	// survive filtering. Defaults to 150 when zero.
	MinPerimeter float64
}

// DefaultExtractor returns an Extractor with the default filtering floors
// and simplification disabled.
func DefaultExtractor() Extractor {
	return Extractor{
		MinAreaFraction: 0.0005,
		MinPerimeter:    150,
	}
}

// Extract runs the full Extractor pipeline: luminance, Gaussian smoothing,
// Canny-style hysteresis edge detection, 4-connected boundary tracing (see
// traceContours), and area/perimeter filtering.
func (e Extractor) Extract(r *Raster, threshold int) (ContourSet, error) {
	if !r.Valid() {
		return ContourSet{}, ErrInvalidRaster
	}

	luminance := toLuminance(r)
	low, high := ThresholdToCanny(threshold)
	edges := cannyEdges(luminance, r.Width, r.Height, low, high)

	raw := traceContours(edges, r.Width, r.Height)

	minAreaFraction := e.MinAreaFraction
	if minAreaFraction == 0 {
		minAreaFraction = 0.0005
	}
	minPerimeter := e.MinPerimeter
	if minPerimeter == 0 {
		minPerimeter = 150
	}
	minArea := minAreaFraction * float64(r.Width*r.Height)

	contours := make([]Contour, 0, len(raw))
	for _, c := range raw {
		if e.Simplify {
			c = Contour{Points: simplifyContour(c.Points, e.SimplifyTolerance)}
		}
		area := c.Area()
		if area < 0 {
			area = -area
		}
		if area < minArea || c.Perimeter() < minPerimeter {
			continue
		}
		contours = append(contours, c)
	}

	return ContourSet{Contours: contours, SourceWidth: r.Width, SourceHeight: r.Height}, nil
}

// ExtractContours runs the Extractor with its default configuration. It is
// exposed as a standalone function for preview/visualization callers that
// don't need the full Matcher Facade.
func ExtractContours(r *Raster, threshold int) (ContourSet, error) {
	return DefaultExtractor().Extract(r, threshold)
}
