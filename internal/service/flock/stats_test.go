package flock

import (
	"testing"

	"github.com/coopledger/coopledger/internal/domain/models"
)

func TestComputeStats(t *testing.T) {
	profile := &models.FlockProfile{Hens: 6, Roosters: 1, Chicks: 4, Brooding: 2}
	events := []models.FlockEvent{
		{ID: "ev1", Date: "2025-05-01", Type: models.EventAcquisition},
		{ID: "ev2", Date: "2025-06-02", Type: models.EventHatching},
		{ID: "ev3", Date: "2025-05-20", Type: models.EventBroody},
		{ID: "ev4", Date: "2025-05-25", Type: models.EventBroody},
	}

	stats := ComputeStats(profile, events)

	if stats.TotalBirds != 11 {
		t.Errorf("TotalBirds = %d, want 11", stats.TotalBirds)
	}
	if stats.Brooding != 2 {
		t.Errorf("Brooding = %d, want 2", stats.Brooding)
	}
	if stats.EventCounts[models.EventBroody] != 2 {
		t.Errorf("EventCounts[broody] = %d, want 2", stats.EventCounts[models.EventBroody])
	}
	if stats.LatestEvent == nil || stats.LatestEvent.ID != "ev2" {
		t.Errorf("LatestEvent = %+v, want ev2 (latest by date, not list order)", stats.LatestEvent)
	}
}

func TestComputeStats_NoProfile(t *testing.T) {
	stats := ComputeStats(nil, nil)
	if stats.TotalBirds != 0 || stats.LatestEvent != nil {
		t.Fatalf("stats = %+v, want zeros without a profile", stats)
	}
}
