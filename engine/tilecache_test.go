package engine

import "testing"

func TestLoadTileNotExists(t *testing.T) {
	dir := t.TempDir()
	r, err := LoadTile(dir, TileCacheKey{Lat: 1, Lon: 2, WidthMeters: 50, Pixels: 512})
	if err != nil {
		t.Fatalf("LoadTile: %v", err)
	}
	if r != nil {
		t.Errorf("LoadTile(missing) = %+v, want nil", r)
	}
}

func TestSaveThenLoadTileRoundTrips(t *testing.T) {
	dir := t.TempDir()
	key := TileCacheKey{Lat: 48.8566, Lon: 2.3522, WidthMeters: 100, Pixels: 256}
	original := solidSquareRaster(64, 64, 10, 10, 40, 40)

	if err := SaveTile(dir, key, original); err != nil {
		t.Fatalf("SaveTile: %v", err)
	}

	loaded, err := LoadTile(dir, key)
	if err != nil {
		t.Fatalf("LoadTile: %v", err)
	}
	if loaded == nil {
		t.Fatal("LoadTile returned nil after SaveTile")
	}
	if loaded.Width != original.Width || loaded.Height != original.Height {
		t.Fatalf("dimensions = (%d,%d), want (%d,%d)", loaded.Width, loaded.Height, original.Width, original.Height)
	}
	for i := range original.Pix {
		if loaded.Pix[i] != original.Pix[i] {
			t.Fatalf("pixel %d mismatch: got %d, want %d", i, loaded.Pix[i], original.Pix[i])
		}
	}
}

func TestTileCacheKeysWithDifferentPixelsDontCollide(t *testing.T) {
	dir := t.TempDir()
	a := TileCacheKey{Lat: 1, Lon: 1, WidthMeters: 50, Pixels: 256}
	b := TileCacheKey{Lat: 1, Lon: 1, WidthMeters: 50, Pixels: 512}

	if err := SaveTile(dir, a, solidGrayRaster(8, 8, 10)); err != nil {
		t.Fatalf("SaveTile(a): %v", err)
	}
	loaded, err := LoadTile(dir, b)
	if err != nil {
		t.Fatalf("LoadTile(b): %v", err)
	}
	if loaded != nil {
		t.Errorf("expected distinct cache keys to not collide, got %+v", loaded)
	}
}
