package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/kwv/aerialmatch/engine"
)

// Publisher publishes ranked match results back to MQTT: GeoJSON on one
// topic per drone, plus a combined summary topic of best scores.
type Publisher struct {
	client  mqtt.Client
	prefix  string
	qos     byte
	retain  bool
	results map[string]engine.RankedMatches
	mu      sync.RWMutex
}

// NewPublisher creates a Publisher bound to client. If client is nil,
// PublishResult becomes a no-op error, which is useful for tests.
func NewPublisher(client mqtt.Client) *Publisher {
	prefix := os.Getenv("MQTT_PUBLISH_PREFIX")
	if prefix == "" {
		prefix = "aerialmatch"
	}
	return &Publisher{
		client:  client,
		prefix:  prefix,
		qos:     0,
		retain:  true,
		results: make(map[string]engine.RankedMatches),
	}
}

// PublishResult publishes a drone's ranked match as a GeoJSON
// FeatureCollection to its individual topic, then republishes the combined
// topic as a drone-ID -> best-score summary of all results seen so far.
func (p *Publisher) PublishResult(droneID string, ranked engine.RankedMatches, candidates []Candidate) error {
	if p.client == nil || !p.client.IsConnected() {
		return fmt.Errorf("MQTT client not connected")
	}

	p.mu.Lock()
	p.results[droneID] = ranked
	p.mu.Unlock()

	fc := ExportRankedMatches(candidates, ranked)
	payload, err := json.Marshal(fc)
	if err != nil {
		return fmt.Errorf("marshaling result: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.prefix, droneID)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	log.Printf("[MQTT] published result for drone %s: best_score=%.1f", droneID, ranked.BestScore)

	return p.publishCombined()
}

func (p *Publisher) publishCombined() error {
	p.mu.RLock()
	summary := make(map[string]float64, len(p.results))
	for id, r := range p.results {
		summary[id] = r.BestScore
	}
	p.mu.RUnlock()

	message := map[string]interface{}{
		"drones":    summary,
		"timestamp": time.Now().Unix(),
	}
	payload, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("marshaling combined results: %w", err)
	}

	topic := fmt.Sprintf("%s/summary", p.prefix)
	token := p.client.Publish(topic, p.qos, p.retain, payload)
	if token.WaitTimeout(2*time.Second) && token.Error() != nil {
		return fmt.Errorf("publishing to %s: %w", topic, token.Error())
	}
	return nil
}

// LastResult returns the last published result for droneID.
func (p *Publisher) LastResult(droneID string) (engine.RankedMatches, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	r, ok := p.results[droneID]
	return r, ok
}
