package engine

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/simplify"
)

// simplifyContour reduces a traced polyline's point count via
// Douglas-Peucker simplification. A contour with fewer than 3 points is
// returned as-is.
func simplifyContour(points []Point, tolerance float64) []Point {
	if len(points) < 3 || tolerance <= 0 {
		return points
	}

	ls := make(orb.LineString, len(points))
	for i, p := range points {
		ls[i] = orb.Point{float64(p.X), float64(p.Y)}
	}

	reduced := simplify.DouglasPeucker(tolerance).LineString(ls)
	if len(reduced) < 2 {
		return points
	}

	out := make([]Point, len(reduced))
	for i, p := range reduced {
		out[i] = Point{X: int(p[0]), Y: int(p[1])}
	}
	return out
}
