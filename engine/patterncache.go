package engine

import (
	"bytes"
	"compress/zlib"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// cachedContourSet mirrors ContourSet for JSON serialization.
type cachedContourSet struct {
	Contours     [][]Point `json:"contours"`
	SourceWidth  int       `json:"sourceWidth"`
	SourceHeight int       `json:"sourceHeight"`
}

// PatternCache caches a fetched reference tile's extracted ContourSet,
// keyed by the same TileCacheKey as the raw tile, so repeated queries
// against a fixed candidate set skip re-extraction.
type PatternCache struct {
	Dir string
}

func (pc PatternCache) path(key TileCacheKey) string {
	return filepath.Join(pc.Dir, key.cacheFileName()+".contours.zlib")
}

// Load returns a cached ContourSet, or ok=false when no entry exists.
func (pc PatternCache) Load(key TileCacheKey) (ContourSet, bool, error) {
	data, err := os.ReadFile(pc.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return ContourSet{}, false, nil
		}
		return ContourSet{}, false, fmt.Errorf("reading pattern cache: %w", err)
	}

	reader, err := zlib.NewReader(bytes.NewReader(data))
	if err != nil {
		return ContourSet{}, false, fmt.Errorf("opening pattern cache zlib stream: %w", err)
	}
	defer func() { _ = reader.Close() }()

	jsonBytes, err := io.ReadAll(reader)
	if err != nil {
		return ContourSet{}, false, fmt.Errorf("inflating pattern cache: %w", err)
	}

	var c cachedContourSet
	if err := json.Unmarshal(jsonBytes, &c); err != nil {
		return ContourSet{}, false, fmt.Errorf("parsing pattern cache: %w", err)
	}

	cs := ContourSet{SourceWidth: c.SourceWidth, SourceHeight: c.SourceHeight}
	cs.Contours = make([]Contour, len(c.Contours))
	for i, pts := range c.Contours {
		cs.Contours[i] = Contour{Points: pts}
	}
	return cs, true, nil
}

// Save writes cs to the disk cache, creating the directory if needed.
func (pc PatternCache) Save(key TileCacheKey, cs ContourSet) error {
	if err := os.MkdirAll(pc.Dir, 0o755); err != nil {
		return fmt.Errorf("creating pattern cache directory: %w", err)
	}

	c := cachedContourSet{SourceWidth: cs.SourceWidth, SourceHeight: cs.SourceHeight}
	c.Contours = make([][]Point, len(cs.Contours))
	for i, contour := range cs.Contours {
		c.Contours[i] = contour.Points
	}

	jsonBytes, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling pattern cache entry: %w", err)
	}

	var buf bytes.Buffer
	writer := zlib.NewWriter(&buf)
	if _, err := writer.Write(jsonBytes); err != nil {
		return fmt.Errorf("compressing pattern cache entry: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("closing pattern cache zlib stream: %w", err)
	}

	if err := os.WriteFile(pc.path(key), buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("writing pattern cache entry: %w", err)
	}
	return nil
}
