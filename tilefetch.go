package main

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/kwv/aerialmatch/engine"
)

const (
	// defaultFetchTimeout is the default HTTP request timeout for tile fetches.
	defaultFetchTimeout = 30 * time.Second

	// defaultMaxRetries is the default total number of fetch attempts,
	// the first try included.
	defaultMaxRetries = 3

	// defaultBaseBackoff is the base delay for exponential backoff.
	defaultBaseBackoff = 500 * time.Millisecond

	// maxTileResponseBytes limits a tile response body to 25 MB.
	maxTileResponseBytes = 25 << 20
)

// TileFetcher fetches a reference tile for a candidate site at a requested
// size, returning a raster image centered on (lat, lon). Implementations
// are expected to layer disk caching via engine.LoadTile/engine.SaveTile.
type TileFetcher interface {
	FetchTile(ctx context.Context, lat, lon, widthMeters float64, pixels int) (*engine.Raster, error)
}

// FetchOption configures an HTTPTileFetcher.
type FetchOption func(*fetchOptions)

type fetchOptions struct {
	timeout     time.Duration
	maxRetries  int
	baseBackoff time.Duration
	client      *http.Client
}

func defaultFetchOptions() fetchOptions {
	return fetchOptions{
		timeout:     defaultFetchTimeout,
		maxRetries:  defaultMaxRetries,
		baseBackoff: defaultBaseBackoff,
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) FetchOption {
	return func(o *fetchOptions) { o.timeout = d }
}

// WithMaxRetries sets the total number of fetch attempts, the first try
// included.
func WithMaxRetries(n int) FetchOption {
	return func(o *fetchOptions) { o.maxRetries = n }
}

// WithBaseBackoff sets the base delay for exponential backoff between retries.
func WithBaseBackoff(d time.Duration) FetchOption {
	return func(o *fetchOptions) { o.baseBackoff = d }
}

// WithHTTPClient overrides the default HTTP client (useful for testing).
func WithHTTPClient(client *http.Client) FetchOption {
	return func(o *fetchOptions) { o.client = client }
}

// HTTPTileFetcher fetches reference tiles from an aerial/satellite imagery
// provider over HTTP, optionally reading/writing the on-disk tile cache.
type HTTPTileFetcher struct {
	BaseURL  string
	CacheDir string // empty disables the on-disk tile cache

	opts fetchOptions
}

// NewHTTPTileFetcher builds an HTTPTileFetcher against the given provider
// base URL, which is expected to accept lat/lon/width_m/pixels query params
// and return an image (PNG or JPEG).
func NewHTTPTileFetcher(baseURL string, opts ...FetchOption) *HTTPTileFetcher {
	o := defaultFetchOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &HTTPTileFetcher{BaseURL: baseURL, opts: o}
}

// FetchTile implements TileFetcher. It checks the disk cache first, then
// retries any failed attempt (request error, non-200 status, undecodable
// body) with exponential backoff.
func (f *HTTPTileFetcher) FetchTile(ctx context.Context, lat, lon, widthMeters float64, pixels int) (*engine.Raster, error) {
	key := engine.TileCacheKey{Lat: lat, Lon: lon, WidthMeters: widthMeters, Pixels: pixels}

	if f.CacheDir != "" {
		cached, err := engine.LoadTile(f.CacheDir, key)
		if err != nil {
			return nil, fmt.Errorf("reading tile cache: %w", err)
		}
		if cached != nil {
			return cached, nil
		}
	}

	if f.BaseURL == "" {
		return nil, fmt.Errorf("%w: no tile provider configured", engine.ErrTileFetchFailed)
	}

	client := f.opts.client
	if client == nil {
		client = &http.Client{Timeout: f.opts.timeout}
	}

	var lastErr error
	for attempt := 0; attempt < f.opts.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := f.opts.baseBackoff * time.Duration(math.Pow(2, float64(attempt-1)))
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", engine.ErrTileFetchFailed, ctx.Err())
			case <-time.After(backoff):
			}
		}

		raster, err := f.doFetch(ctx, client, lat, lon, widthMeters, pixels)
		if err != nil {
			lastErr = err
			continue
		}

		if f.CacheDir != "" {
			if err := engine.SaveTile(f.CacheDir, key, raster); err != nil {
				return nil, fmt.Errorf("writing tile cache: %w", err)
			}
		}
		return raster, nil
	}

	return nil, fmt.Errorf("%w: all %d attempts failed: %v", engine.ErrTileFetchFailed, f.opts.maxRetries, lastErr)
}

func (f *HTTPTileFetcher) doFetch(ctx context.Context, client *http.Client, lat, lon, widthMeters float64, pixels int) (*engine.Raster, error) {
	u, err := url.Parse(f.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing tile provider URL: %w", err)
	}
	q := u.Query()
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(lon, 'f', -1, 64))
	q.Set("width_m", strconv.FormatFloat(widthMeters, 'f', -1, 64))
	q.Set("pixels", strconv.Itoa(pixels))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Accept", "image/png, image/jpeg")

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("HTTP GET %s: %w", u.String(), err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP GET %s: status %d", u.String(), resp.StatusCode)
	}

	img, _, err := image.Decode(io.LimitReader(resp.Body, maxTileResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("decoding tile image from %s: %w", u.String(), err)
	}

	return engine.NewRaster(img), nil
}
