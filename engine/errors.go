package engine

import "errors"

// Sentinel error kinds. These are the only global errors the engine
// raises; everything else degrades a single reference's result instead
// of failing the whole call.
var (
	// ErrInvalidRaster is returned for a zero-sized or unreadable raster.
	// Fatal for the call.
	ErrInvalidRaster = errors.New("engine: invalid raster")

	// ErrConfigOutOfRange is returned when a MatchConfig value is outside
	// its allowed range (e.g. scale_steps < 1, pattern size < 32). Fatal,
	// surfaced before any work begins.
	ErrConfigOutOfRange = errors.New("engine: config out of range")

	// ErrTileFetchFailed is raised by the tile-fetch collaborator above
	// the engine; the engine itself never returns it, but defines it here
	// so facades can wrap it consistently and the per-reference FetchError
	// flag has a single well-known cause to point to.
	ErrTileFetchFailed = errors.New("engine: tile fetch failed")
)
