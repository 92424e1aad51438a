package engine

import "sort"

// Match runs the Matcher Facade: it extracts and rasterizes the query
// once, then for each reference runs extraction, rasterization, and
// Transform Search (or the Individual-Contour Scorer, when
// cfg.Mode == ModeIndividual) against the cached query artifacts. A
// failure on one reference degrades that entry's result rather than
// aborting the whole run.
func Match(query *Raster, references []*Raster, cfg MatchConfig) (RankedMatches, error) {
	if err := cfg.Validate(); err != nil {
		return RankedMatches{}, err
	}
	if !query.Valid() {
		return RankedMatches{}, ErrInvalidRaster
	}

	extractor := DefaultExtractor()
	rasterizer := Rasterizer{Size: cfg.PatternSize, Margin: 0.9}

	queryContours, err := extractor.Extract(query, cfg.Threshold)
	if err != nil {
		return RankedMatches{}, err
	}
	queryFeatureless := queryContours.Empty()
	queryPattern := rasterizer.Rasterize(queryContours)

	per := make([]PerReferenceResult, 0, len(references))
	for i, ref := range references {
		if ref == nil || !ref.Valid() {
			per = append(per, PerReferenceResult{
				Index:  i,
				Result: MatchResult{Transform: IdentityTransform(), IoU: 0, FetchError: true},
			})
			continue
		}

		refContours, err := extractor.Extract(ref, cfg.Threshold)
		if err != nil {
			per = append(per, PerReferenceResult{
				Index:  i,
				Result: MatchResult{Transform: IdentityTransform(), IoU: 0, FetchError: true},
			})
			continue
		}
		referenceFeatureless := refContours.Empty()

		var result MatchResult
		if cfg.Mode == ModeIndividual {
			score := ScoreIndividual(queryContours, refContours)
			result = MatchResult{Transform: IdentityTransform(), IoU: score / 100}
		} else {
			refPattern := rasterizer.Rasterize(refContours)
			searchCfg := cfg
			searchCfg.Simplify = cfg.Mode == ModeHolisticSimple || cfg.Simplify
			result = Search(queryPattern, refPattern, searchCfg)
		}

		result.QueryFeatureless = queryFeatureless
		result.ReferenceFeatureless = referenceFeatureless
		per = append(per, PerReferenceResult{Index: i, Result: result})
	}

	sort.SliceStable(per, func(i, j int) bool {
		return per[i].Result.IoU > per[j].Result.IoU
	})

	ranked := RankedMatches{QueryFeatureless: queryFeatureless, PerReference: per}
	if len(per) == 0 {
		ranked.BestIndex = 0
		ranked.BestScore = 0
		return ranked, nil
	}
	ranked.BestIndex = per[0].Index
	ranked.BestScore = per[0].Result.ScorePercent()
	return ranked, nil
}
