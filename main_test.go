package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func TestSavePreviewWritesPNGFile(t *testing.T) {
	dir := t.TempDir()
	queryPath := filepath.Join(dir, "query.png")
	refPath := filepath.Join(dir, "reference.png")
	writeSquarePNG(t, queryPath, 96)
	writeSquarePNG(t, refPath, 96)

	out := filepath.Join(dir, "preview.png")
	outputFile = &out

	cfg := DefaultAppConfig()
	app := NewApp(&cfg)

	result := engine.MatchResult{Transform: engine.Transform{Scale: 1}, IoU: 0.9}
	if err := savePreview(app, queryPath, refPath, result); err != nil {
		t.Fatalf("savePreview: %v", err)
	}

	info, err := os.Stat(out)
	if err != nil {
		t.Fatalf("stat preview output: %v", err)
	}
	if info.Size() == 0 {
		t.Error("expected a non-empty preview PNG")
	}
}

func TestSavePreviewMissingImageErrors(t *testing.T) {
	out := filepath.Join(t.TempDir(), "preview.png")
	outputFile = &out

	cfg := DefaultAppConfig()
	app := NewApp(&cfg)

	err := savePreview(app, "missing-query.png", "missing-reference.png", engine.MatchResult{})
	if err == nil {
		t.Fatal("expected error for missing source images")
	}
}

func TestPrintResultDoesNotPanic(t *testing.T) {
	printResult(87.5, false, false)
	printResult(0, true, true)
}
