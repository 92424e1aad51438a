package engine

import "math"

// ScoreIndividual implements the Individual-Contour Scorer: for every
// query contour, the best-matching reference contour is found by shape
// similarity, and the final score is the query-weighted mean of those
// best similarities, in [0, 100].
//
// Weighting is by each query contour's absolute polygon area as a
// fraction of the query's total contour area — larger shapes dominate
// the aggregate score.
func ScoreIndividual(query, reference ContourSet) float64 {
	if query.Empty() || reference.Empty() {
		return 0
	}

	refMoments := make([]moments7, len(reference.Contours))
	refShapes := make([]shapeRatios, len(reference.Contours))
	for i, c := range reference.Contours {
		refMoments[i] = computeMoments7(c)
		refShapes[i] = computeShapeRatios(c)
	}

	var totalWeight, weightedSum float64
	for _, q := range query.Contours {
		qm := computeMoments7(q)
		qs := computeShapeRatios(q)

		best := 0.0
		for i := range reference.Contours {
			s := shapeSimilarity(qm, refMoments[i], qs, refShapes[i])
			if s > best {
				best = s
			}
		}

		weight := math.Abs(q.Area())
		totalWeight += weight
		weightedSum += weight * best
	}

	if totalWeight == 0 {
		return 0
	}
	return 100 * (weightedSum / totalWeight)
}

// moments7 holds the seven log-absolute, signed-preserving normalized
// moment invariants of a polygon (Hu-moment form), computed by treating
// the polygon's vertices as unit point masses.
type moments7 [7]float64

func computeMoments7(c Contour) moments7 {
	pts := c.Points
	n := float64(len(pts))
	if n == 0 {
		return moments7{}
	}

	var m00, m10, m01 float64
	for _, p := range pts {
		m00++
		m10 += float64(p.X)
		m01 += float64(p.Y)
	}
	if m00 == 0 {
		return moments7{}
	}
	cx, cy := m10/m00, m01/m00

	var mu20, mu02, mu11, mu30, mu03, mu12, mu21 float64
	for _, p := range pts {
		x := float64(p.X) - cx
		y := float64(p.Y) - cy
		mu20 += x * x
		mu02 += y * y
		mu11 += x * y
		mu30 += x * x * x
		mu03 += y * y * y
		mu12 += x * y * y
		mu21 += x * x * y
	}

	norm := func(mu float64, order float64) float64 {
		return mu / math.Pow(m00, order)
	}
	eta20 := norm(mu20, 2)
	eta02 := norm(mu02, 2)
	eta11 := norm(mu11, 2)
	eta30 := norm(mu30, 2.5)
	eta03 := norm(mu03, 2.5)
	eta12 := norm(mu12, 2.5)
	eta21 := norm(mu21, 2.5)

	i1 := eta20 + eta02
	i2 := (eta20-eta02)*(eta20-eta02) + 4*eta11*eta11
	i3 := sq(eta30-3*eta12) + sq(3*eta21-eta03)
	i4 := sq(eta30+eta12) + sq(eta21+eta03)
	i5 := (eta30-3*eta12)*(eta30+eta12)*(sq(eta30+eta12)-3*sq(eta21+eta03)) +
		(3*eta21-eta03)*(eta21+eta03)*(3*sq(eta30+eta12)-sq(eta21+eta03))
	i6 := (eta20-eta02)*(sq(eta30+eta12)-sq(eta21+eta03)) + 4*eta11*(eta30+eta12)*(eta21+eta03)
	i7 := (3*eta21-eta03)*(eta30+eta12)*(sq(eta30+eta12)-3*sq(eta21+eta03)) -
		(eta30-3*eta12)*(eta21+eta03)*(3*sq(eta30+eta12)-sq(eta21+eta03))

	raw := [7]float64{i1, i2, i3, i4, i5, i6, i7}
	var out moments7
	for i, v := range raw {
		sign := 1.0
		if v < 0 {
			sign = -1.0
		}
		out[i] = sign * math.Log(1+math.Abs(v))
	}
	return out
}

func sq(v float64) float64 { return v * v }

// shapeRatios holds perimeter, area, and circularity for ratio-bag
// comparison.
type shapeRatios struct {
	perimeter, area, circularity float64
}

func computeShapeRatios(c Contour) shapeRatios {
	perimeter := c.Perimeter()
	area := math.Abs(c.Area())
	circularity := 0.0
	if perimeter > 0 {
		circularity = 4 * math.Pi * area / (perimeter * perimeter)
	}
	return shapeRatios{perimeter: perimeter, area: area, circularity: circularity}
}

// shapeSimilarity combines the moment-invariant L1 distance and the
// ratio-bag comparison into a single [0,1] similarity, 60% moments / 40%
// ratio-bag.
func shapeSimilarity(qm, rm moments7, qs, rs shapeRatios) float64 {
	var l1 float64
	for i := range qm {
		l1 += math.Abs(qm[i] - rm[i])
	}
	momentSim := 1 / (1 + l1)

	ratioDiff := func(a, b float64) float64 {
		denom := math.Max(a, b)
		if denom < 1e-9 {
			denom = 1e-9
		}
		return math.Abs(a-b) / denom
	}
	avgDiff := (ratioDiff(qs.perimeter, rs.perimeter) +
		ratioDiff(qs.area, rs.area) +
		ratioDiff(qs.circularity, rs.circularity)) / 3
	ratioSim := 1 - avgDiff
	if ratioSim < 0 {
		ratioSim = 0
	}

	return 0.6*momentSim + 0.4*ratioSim
}
