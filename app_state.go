package main

import (
	"sync"
	"time"

	"github.com/kwv/aerialmatch/engine"
)

// droneMatchRecord is the last ranked match recorded for one drone,
// whatever its score.
type droneMatchRecord struct {
	Result    engine.RankedMatches
	Timestamp time.Time
}

// DroneStateTracker remembers the last ranked match per drone ID, so a
// "last known position" read doesn't require rerunning a match. This only
// matters for the optional live-ingestion (MQTT) mode; a one-shot CLI match
// has no state to track.
type DroneStateTracker struct {
	mu      sync.RWMutex
	records map[string]droneMatchRecord
}

// NewDroneStateTracker returns an empty tracker.
func NewDroneStateTracker() *DroneStateTracker {
	return &DroneStateTracker{records: make(map[string]droneMatchRecord)}
}

// Update records the latest ranked match for droneID.
func (t *DroneStateTracker) Update(droneID string, result engine.RankedMatches) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.records[droneID] = droneMatchRecord{Result: result, Timestamp: time.Now()}
}

// Get returns the last recorded match for droneID, or ok=false if none exists.
func (t *DroneStateTracker) Get(droneID string) (engine.RankedMatches, time.Time, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	rec, ok := t.records[droneID]
	if !ok {
		return engine.RankedMatches{}, time.Time{}, false
	}
	return rec.Result, rec.Timestamp, true
}

// Drones returns the IDs of all drones with a recorded match.
func (t *DroneStateTracker) Drones() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	ids := make([]string, 0, len(t.records))
	for id := range t.records {
		ids = append(ids, id)
	}
	return ids
}

// Clear removes the recorded match for droneID, if any.
func (t *DroneStateTracker) Clear(droneID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.records, droneID)
}
