package main

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func writeSquarePNG(t *testing.T, path string, size int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestMatchImagesHappyPath(t *testing.T) {
	dir := t.TempDir()
	queryPath := filepath.Join(dir, "query.png")
	refPath := filepath.Join(dir, "reference.png")
	writeSquarePNG(t, queryPath, 128)
	writeSquarePNG(t, refPath, 128)

	cfg := DefaultAppConfig()
	app := NewApp(&cfg)

	result, err := app.MatchImages(queryPath, refPath)
	if err != nil {
		t.Fatalf("MatchImages: %v", err)
	}
	if result.ScorePercent() < 50 {
		t.Errorf("identical squares should score highly, got %.1f", result.ScorePercent())
	}
}

func TestMatchImagesMissingFileErrors(t *testing.T) {
	cfg := DefaultAppConfig()
	app := NewApp(&cfg)

	_, err := app.MatchImages("does-not-exist.png", "also-missing.png")
	if err == nil {
		t.Fatal("expected error for missing query image")
	}
}

// fakeTileFetcher returns a fixed raster, or an error when the requested
// lon equals failLon.
type fakeTileFetcher struct {
	raster  *engine.Raster
	failLon float64
}

func (f *fakeTileFetcher) FetchTile(ctx context.Context, lat, lon, widthMeters float64, pixels int) (*engine.Raster, error) {
	if lon == f.failLon {
		return nil, fmt.Errorf("simulated tile fetch failure")
	}
	return f.raster, nil
}

func solidSquarePNGRaster(size int) *engine.Raster {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := size / 4; y < size*3/4; y++ {
		for x := size / 4; x < size*3/4; x++ {
			img.Set(x, y, color.White)
		}
	}
	return engine.NewRaster(img)
}

func TestMatchCandidatesRanksAndDegradesFailedFetch(t *testing.T) {
	dir := t.TempDir()
	queryPath := filepath.Join(dir, "query.png")
	writeSquarePNG(t, queryPath, 128)

	cfg := DefaultAppConfig()
	cfg.TileWidthMeters = 200
	cfg.Candidates = []Candidate{
		{ID: "good", Lat: 1, Lon: 1},
		{ID: "bad", Lat: 2, Lon: 99},
	}
	app := NewApp(&cfg)
	app.TileFetcher = &fakeTileFetcher{raster: solidSquarePNGRaster(cfg.Match.PatternSize), failLon: 99}

	ranked, candidates, err := app.MatchCandidates(context.Background(), queryPath, nil)
	if err != nil {
		t.Fatalf("MatchCandidates: %v", err)
	}
	if len(candidates) != 2 || len(ranked.PerReference) != 2 {
		t.Fatalf("expected 2 candidates in result, got %d/%d", len(candidates), len(ranked.PerReference))
	}

	var sawFetchError bool
	for _, pr := range ranked.PerReference {
		if pr.Index == 1 && pr.Result.FetchError {
			sawFetchError = true
		}
	}
	if !sawFetchError {
		t.Error("expected the failing candidate to be flagged FetchError")
	}
}

func TestMatchCandidatesNoTileFetcherErrors(t *testing.T) {
	cfg := DefaultAppConfig()
	app := NewApp(&cfg) // no TileProviderURL configured, so TileFetcher is nil

	_, _, err := app.MatchCandidates(context.Background(), "query.png", nil)
	if err == nil {
		t.Fatal("expected error with no tile fetcher configured")
	}
}

func TestMatchCandidatesUnknownIDErrors(t *testing.T) {
	dir := t.TempDir()
	queryPath := filepath.Join(dir, "query.png")
	writeSquarePNG(t, queryPath, 128)

	cfg := DefaultAppConfig()
	cfg.Candidates = []Candidate{{ID: "known", Lat: 1, Lon: 1}}
	app := NewApp(&cfg)
	app.TileFetcher = &fakeTileFetcher{raster: solidSquarePNGRaster(cfg.Match.PatternSize)}

	_, _, err := app.MatchCandidates(context.Background(), queryPath, []string{"unknown"})
	if err == nil {
		t.Fatal("expected error for unknown candidate id")
	}
}
