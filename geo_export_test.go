package main

import (
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func TestExportRankedMatchesShapeAndProperties(t *testing.T) {
	candidates := []Candidate{
		{ID: "site-a", Lat: 10, Lon: 20},
		{ID: "site-b", Lat: 30, Lon: 40},
	}
	ranked := engine.RankedMatches{
		BestIndex: 1,
		BestScore: 91,
		PerReference: []engine.PerReferenceResult{
			{Index: 0, Result: engine.MatchResult{IoU: 0.40}},
			{Index: 1, Result: engine.MatchResult{IoU: 0.91, Transform: engine.Transform{Scale: 1.2, AngleDeg: 5}}},
		},
	}

	fc := ExportRankedMatches(candidates, ranked)

	if len(fc.Features) != 2 {
		t.Fatalf("got %d features, want 2", len(fc.Features))
	}

	best := fc.Features[1]
	if best.Properties["id"] != "site-b" {
		t.Errorf("feature[1].id = %v, want site-b", best.Properties["id"])
	}
	if best.Properties["best"] != true {
		t.Errorf("feature[1].best = %v, want true", best.Properties["best"])
	}
	if score, _ := best.Properties["score"].(float64); score < 90 || score > 92 {
		t.Errorf("feature[1].score = %v, want ~91", best.Properties["score"])
	}

	notBest := fc.Features[0]
	if notBest.Properties["best"] != false {
		t.Errorf("feature[0].best = %v, want false", notBest.Properties["best"])
	}
}

func TestExportRankedMatchesSkipsOutOfRangeIndex(t *testing.T) {
	candidates := []Candidate{{ID: "only", Lat: 1, Lon: 1}}
	ranked := engine.RankedMatches{
		PerReference: []engine.PerReferenceResult{
			{Index: 5, Result: engine.MatchResult{}},
		},
	}

	fc := ExportRankedMatches(candidates, ranked)
	if len(fc.Features) != 0 {
		t.Fatalf("expected out-of-range index to be skipped, got %d features", len(fc.Features))
	}
}
