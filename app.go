package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"log"
	"os"
	"path/filepath"

	"github.com/kwv/aerialmatch/engine"
)

// App wires the application-level collaborators (config, tile fetcher,
// drone state tracker, optional MQTT client/publisher) around the engine
// package.
type App struct {
	Config      *AppConfig
	TileFetcher TileFetcher
	States      *DroneStateTracker
	MQTT        *MQTTClient
	Publisher   *Publisher
}

// NewApp builds an App from a loaded AppConfig. MQTT and Publisher are left
// unset; live mode (runLive) fills them in from InitMQTT.
func NewApp(cfg *AppConfig) *App {
	app := &App{
		Config: cfg,
		States: NewDroneStateTracker(),
	}

	if cfg.TileProviderURL != "" {
		fetcher := NewHTTPTileFetcher(cfg.TileProviderURL)
		fetcher.CacheDir = filepath.Join(cfg.DataDir, "tiles")
		app.TileFetcher = fetcher
	}

	return app
}

// MatchImages runs the Matcher Facade against two images already on disk,
// with no tile fetch or candidate list involved.
func (a *App) MatchImages(queryPath, referencePath string) (engine.MatchResult, error) {
	query, err := loadImageFile(queryPath)
	if err != nil {
		return engine.MatchResult{}, fmt.Errorf("loading query image: %w", err)
	}
	reference, err := loadImageFile(referencePath)
	if err != nil {
		return engine.MatchResult{}, fmt.Errorf("loading reference image: %w", err)
	}

	ranked, err := engine.Match(query, []*engine.Raster{reference}, a.Config.Match)
	if err != nil {
		return engine.MatchResult{}, err
	}
	return ranked.PerReference[0].Result, nil
}

// MatchCandidates runs the Matcher Facade against the configured candidate
// site list (or a filtered subset, when ids is non-empty), fetching each
// candidate's tile through a.TileFetcher.
func (a *App) MatchCandidates(ctx context.Context, queryPath string, ids []string) (engine.RankedMatches, []Candidate, error) {
	if a.TileFetcher == nil {
		return engine.RankedMatches{}, nil, fmt.Errorf("no tile provider configured")
	}

	query, err := loadImageFile(queryPath)
	if err != nil {
		return engine.RankedMatches{}, nil, fmt.Errorf("loading query image: %w", err)
	}

	candidates := a.Config.Candidates
	if len(ids) > 0 {
		candidates = make([]Candidate, 0, len(ids))
		for _, id := range ids {
			cand, ok := a.Config.CandidateByID(id)
			if !ok {
				return engine.RankedMatches{}, nil, fmt.Errorf("unknown candidate id %q", id)
			}
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) == 0 {
		return engine.RankedMatches{}, nil, fmt.Errorf("no candidates configured")
	}

	pixels := a.Config.Match.PatternSize
	references := make([]*engine.Raster, len(candidates))
	for i, cand := range candidates {
		raster, err := a.TileFetcher.FetchTile(ctx, cand.Lat, cand.Lon, a.Config.TileWidthMeters, pixels)
		if err != nil {
			log.Printf("[TILE] fetch failed for candidate %s: %v", cand.ID, err)
			references[i] = nil // Match degrades this entry to FetchError, not abort.
			continue
		}
		references[i] = raster
	}

	ranked, err := engine.Match(query, references, a.Config.Match)
	if err != nil {
		return engine.RankedMatches{}, nil, err
	}
	return ranked, candidates, nil
}

// loadImageFile decodes a PNG or JPEG file from disk into an engine.Raster.
func loadImageFile(path string) (*engine.Raster, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return engine.NewRaster(img), nil
}
