package main

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/kwv/aerialmatch/engine"
)

// ExportRankedMatches renders one engine.RankedMatches result as a GeoJSON
// FeatureCollection of candidate points, each carrying its score and
// whether it was the best match.
func ExportRankedMatches(candidates []Candidate, ranked engine.RankedMatches) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()

	for _, pr := range ranked.PerReference {
		if pr.Index < 0 || pr.Index >= len(candidates) {
			continue
		}
		cand := candidates[pr.Index]

		f := geojson.NewFeature(orb.Point{cand.Lon, cand.Lat})
		f.Properties["id"] = cand.ID
		f.Properties["score"] = pr.Result.ScorePercent()
		f.Properties["best"] = pr.Index == ranked.BestIndex
		f.Properties["fetchError"] = pr.Result.FetchError
		f.Properties["referenceFeatureless"] = pr.Result.ReferenceFeatureless
		f.Properties["scale"] = pr.Result.Transform.Scale
		f.Properties["angleDeg"] = pr.Result.Transform.AngleDeg

		fc.Append(f)
	}

	return fc
}
