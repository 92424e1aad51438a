package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func TestLoadAppConfigMissingFileErrors(t *testing.T) {
	_, err := LoadAppConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil {
		t.Fatal("expected error for missing config file")
	}
}

func TestSaveThenLoadAppConfigRoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")

	cfg := DefaultAppConfig()
	cfg.TileProviderURL = "https://tiles.example.com/tile"
	cfg.Candidates = []Candidate{
		{ID: "site-a", Lat: 1.5, Lon: 2.5},
		{ID: "site-b", Lat: -3.25, Lon: 10.0},
	}
	cfg.MQTT = MQTTConfig{Broker: "tcp://localhost:1883", RequestTopic: "match/requests"}

	if err := SaveAppConfig(path, &cfg); err != nil {
		t.Fatalf("SaveAppConfig: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if loaded.TileProviderURL != cfg.TileProviderURL {
		t.Errorf("TileProviderURL = %q, want %q", loaded.TileProviderURL, cfg.TileProviderURL)
	}
	if len(loaded.Candidates) != 2 || loaded.Candidates[1].ID != "site-b" {
		t.Errorf("candidates did not round-trip: %+v", loaded.Candidates)
	}
	if loaded.MQTT.RequestTopic != "match/requests" {
		t.Errorf("MQTT.RequestTopic = %q, want match/requests", loaded.MQTT.RequestTopic)
	}
}

func TestLoadAppConfigAppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("dataDir: /var/aerialmatch\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig: %v", err)
	}
	if cfg.TileWidthMeters != 200 {
		t.Errorf("TileWidthMeters = %v, want default 200", cfg.TileWidthMeters)
	}
	if cfg.Match.PatternSize != engine.DefaultMatchConfig().PatternSize {
		t.Errorf("Match config was not defaulted")
	}
}

func TestValidateRejectsNonPositiveTileWidth(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.TileWidthMeters = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for non-positive TileWidthMeters")
	}
}

func TestValidateRejectsCandidateWithoutID(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Candidates = []Candidate{{Lat: 1, Lon: 1}}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for candidate missing id")
	}
}

func TestValidateDelegatesToMatchConfig(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Match.PatternSize = 0
	err := cfg.Validate()
	if err == nil || !errors.Is(err, engine.ErrConfigOutOfRange) {
		t.Fatalf("expected ErrConfigOutOfRange, got %v", err)
	}
}

func TestCandidateByID(t *testing.T) {
	cfg := DefaultAppConfig()
	cfg.Candidates = []Candidate{{ID: "a", Lat: 1, Lon: 1}, {ID: "b", Lat: 2, Lon: 2}}

	if _, ok := cfg.CandidateByID("missing"); ok {
		t.Error("expected ok=false for unknown id")
	}
	cand, ok := cfg.CandidateByID("b")
	if !ok || cand.Lat != 2 {
		t.Errorf("CandidateByID(b) = %+v, %v", cand, ok)
	}
}
