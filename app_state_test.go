package main

import (
	"testing"

	"github.com/kwv/aerialmatch/engine"
)

func TestDroneStateTrackerGetMissingIsNotOK(t *testing.T) {
	tracker := NewDroneStateTracker()
	if _, _, ok := tracker.Get("drone-1"); ok {
		t.Error("expected ok=false for drone with no recorded match")
	}
}

func TestDroneStateTrackerUpdateThenGet(t *testing.T) {
	tracker := NewDroneStateTracker()
	result := engine.RankedMatches{BestIndex: 2, BestScore: 87.5}

	tracker.Update("drone-1", result)

	got, ts, ok := tracker.Get("drone-1")
	if !ok {
		t.Fatal("expected ok=true after Update")
	}
	if got.BestIndex != 2 || got.BestScore != 87.5 {
		t.Errorf("Get returned %+v, want %+v", got, result)
	}
	if ts.IsZero() {
		t.Error("expected a non-zero timestamp")
	}
}

func TestDroneStateTrackerDrones(t *testing.T) {
	tracker := NewDroneStateTracker()
	tracker.Update("drone-a", engine.RankedMatches{})
	tracker.Update("drone-b", engine.RankedMatches{})

	drones := tracker.Drones()
	if len(drones) != 2 {
		t.Fatalf("Drones() returned %d ids, want 2: %v", len(drones), drones)
	}
}

func TestDroneStateTrackerClear(t *testing.T) {
	tracker := NewDroneStateTracker()
	tracker.Update("drone-1", engine.RankedMatches{})
	tracker.Clear("drone-1")

	if _, _, ok := tracker.Get("drone-1"); ok {
		t.Error("expected ok=false after Clear")
	}
	// Clearing an unknown drone is a no-op, not an error.
	tracker.Clear("never-existed")
}
