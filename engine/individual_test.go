package engine

import "testing"

func squareContour(x0, y0, x1, y1 int) Contour {
	return Contour{Points: []Point{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}}}
}

func TestScoreIndividualIdenticalSetsIsHigh(t *testing.T) {
	cs := ContourSet{Contours: []Contour{squareContour(0, 0, 40, 40)}}
	score := ScoreIndividual(cs, cs)
	if score < 95 {
		t.Errorf("ScoreIndividual(cs, cs) = %v, want >= 95 for identical contour sets", score)
	}
}

func TestScoreIndividualEmptyIsZero(t *testing.T) {
	cs := ContourSet{Contours: []Contour{squareContour(0, 0, 40, 40)}}
	if got := ScoreIndividual(ContourSet{}, cs); got != 0 {
		t.Errorf("ScoreIndividual(empty, cs) = %v, want 0", got)
	}
	if got := ScoreIndividual(cs, ContourSet{}); got != 0 {
		t.Errorf("ScoreIndividual(cs, empty) = %v, want 0", got)
	}
}

func TestScoreIndividualDissimilarShapesScoreLower(t *testing.T) {
	square := ContourSet{Contours: []Contour{squareContour(0, 0, 40, 40)}}
	sliver := ContourSet{Contours: []Contour{squareContour(0, 0, 2, 200)}}

	same := ScoreIndividual(square, square)
	different := ScoreIndividual(square, sliver)
	if different >= same {
		t.Errorf("expected a dissimilar shape to score lower: same=%v different=%v", same, different)
	}
}
