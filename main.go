package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/kwv/aerialmatch/engine"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var (
	configFile = flag.String("config", "config.yaml", "Path to the application configuration file")

	matchImagesMode = flag.Bool("match-images", false, "Match two images directly: -query and -reference")
	queryPath       = flag.String("query", "", "Path to the query (drone) image")
	referencePath   = flag.String("reference", "", "Path to the reference image (for -match-images)")

	matchCandidatesMode = flag.Bool("match-candidates", false, "Match one query image against the configured candidate list")
	candidateIDs        = flag.String("candidates", "", "Comma-separated candidate IDs to restrict the search to (default: all configured)")

	renderPatterns = flag.Bool("render-patterns", false, "Save a side-by-side contour-pattern preview PNG alongside the match")
	outputFile     = flag.String("output", "preview.png", "Output file for -render-patterns")

	serveMode = flag.Bool("serve", false, "Run the debug/preview HTTP server")
	httpAddr  = flag.String("addr", ":8080", "HTTP listen address for -serve")

	liveMode = flag.Bool("live", false, "Run the optional MQTT live-ingestion service")
)

func main() {
	flag.Parse()

	cfg, err := LoadAppConfig(*configFile)
	if err != nil {
		log.Fatalf("[MATCH] loading config: %v", err)
	}
	app := NewApp(cfg)

	switch {
	case *matchImagesMode:
		runMatchImages(app)
	case *matchCandidatesMode:
		runMatchCandidates(app)
	case *serveMode:
		runServe(app)
	case *liveMode:
		runLive(app)
	default:
		flag.Usage()
		os.Exit(2)
	}
}

func runMatchImages(app *App) {
	if *queryPath == "" || *referencePath == "" {
		log.Fatal("[MATCH] -match-images requires -query and -reference")
	}

	result, err := app.MatchImages(*queryPath, *referencePath)
	if err != nil {
		log.Fatalf("[MATCH] match failed: %v", err)
	}

	printResult(result.ScorePercent(), result.FetchError, result.QueryFeatureless || result.ReferenceFeatureless)

	if *renderPatterns {
		if err := savePreview(app, *queryPath, *referencePath, result); err != nil {
			log.Printf("[MATCH] rendering preview: %v", err)
		}
	}
}

func runMatchCandidates(app *App) {
	if *queryPath == "" {
		log.Fatal("[MATCH] -match-candidates requires -query")
	}

	var ids []string
	if *candidateIDs != "" {
		ids = strings.Split(*candidateIDs, ",")
	}

	ranked, candidates, err := app.MatchCandidates(context.Background(), *queryPath, ids)
	if err != nil {
		log.Fatalf("[MATCH] match failed: %v", err)
	}

	fc := ExportRankedMatches(candidates, ranked)
	if err := json.NewEncoder(os.Stdout).Encode(fc); err != nil {
		log.Fatalf("[MATCH] encoding result: %v", err)
	}
}

func runServe(app *App) {
	log.Printf("[HTTP] listening on %s", *httpAddr)
	server := &http.Server{Addr: *httpAddr, Handler: newHTTPServer(app)}
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("[HTTP] server error: %v", err)
	}
}

func runLive(app *App) {
	client, err := InitMQTT(app.Config.MQTT, func(req MatchRequest) {
		app.handleMatchRequest(context.Background(), req)
	})
	if err != nil {
		log.Fatalf("[MQTT] %v", err)
	}
	if client == nil {
		log.Fatal("[MQTT] live mode requires mqtt.broker to be configured")
	}
	app.MQTT = client
	app.Publisher = NewPublisher(client.GetClient())

	log.Println("[MQTT] live-ingestion service running, press Ctrl+C to stop")
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[MQTT] shutting down")
	client.Disconnect()
}

func savePreview(app *App, queryPath, referencePath string, result engine.MatchResult) error {
	query, err := loadImageFile(queryPath)
	if err != nil {
		return err
	}
	reference, err := loadImageFile(referencePath)
	if err != nil {
		return err
	}

	extractor := engine.DefaultExtractor()
	rasterizer := engine.Rasterizer{Size: app.Config.Match.PatternSize, Margin: 0.9}

	queryContours, err := extractor.Extract(query, app.Config.Match.Threshold)
	if err != nil {
		return err
	}
	refContours, err := extractor.Extract(reference, app.Config.Match.Threshold)
	if err != nil {
		return err
	}

	img := NewPreviewRenderer().Render(rasterizer.Rasterize(queryContours), rasterizer.Rasterize(refContours), result)
	return NewPreviewRenderer().SavePNG(*outputFile, img)
}

func printResult(scorePercent float64, fetchError, featureless bool) {
	fmt.Printf("score=%.2f fetch_error=%t featureless=%t\n", scorePercent, fetchError, featureless)
}
