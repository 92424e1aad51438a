package main

import (
	"encoding/json"
	"image/png"
	"log"
	"net/http"
	"time"

	"github.com/kwv/aerialmatch/engine"
)

// newHTTPServer builds the minimal debug/preview HTTP surface: /health and
// /preview/contours.png. This is deliberately thin; it exists only to
// exercise the engine end to end during development, not as a product
// surface.
func newHTTPServer(app *App) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /health request from %s", r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		status := struct {
			Status    string    `json:"status"`
			Timestamp time.Time `json:"timestamp"`
		}{Status: "ok", Timestamp: time.Now()}
		if err := json.NewEncoder(w).Encode(status); err != nil {
			log.Printf("[HTTP] error encoding health status: %v", err)
		}
	})

	mux.HandleFunc("/preview/contours.png", func(w http.ResponseWriter, r *http.Request) {
		log.Printf("[HTTP] /preview/contours.png request from %s", r.RemoteAddr)

		queryPath := r.URL.Query().Get("query")
		candidateID := r.URL.Query().Get("candidate")
		if queryPath == "" || candidateID == "" {
			http.Error(w, "query and candidate parameters are required", http.StatusBadRequest)
			return
		}

		cand, ok := app.Config.CandidateByID(candidateID)
		if !ok {
			http.Error(w, "unknown candidate id", http.StatusNotFound)
			return
		}

		ranked, _, err := app.MatchCandidates(r.Context(), queryPath, []string{candidateID})
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		query, err := loadImageFile(queryPath)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		rasterizer := engine.Rasterizer{Size: app.Config.Match.PatternSize, Margin: 0.9}
		extractor := engine.DefaultExtractor()
		queryContours, err := extractor.Extract(query, app.Config.Match.Threshold)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		queryPattern := rasterizer.Rasterize(queryContours)

		refRaster, err := app.TileFetcher.FetchTile(r.Context(), cand.Lat, cand.Lon, app.Config.TileWidthMeters, app.Config.Match.PatternSize)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadGateway)
			return
		}
		refContours, err := extractor.Extract(refRaster, app.Config.Match.Threshold)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		refPattern := rasterizer.Rasterize(refContours)

		img := NewPreviewRenderer().Render(queryPattern, refPattern, ranked.PerReference[0].Result)
		w.Header().Set("Content-Type", "image/png")
		if err := png.Encode(w, img); err != nil {
			log.Printf("[HTTP] error encoding preview PNG: %v", err)
		}
	})

	return mux
}
