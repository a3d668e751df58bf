package flock

import (
	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
)

// Stats are the derived flock figures.
type Stats struct {
	TotalBirds  int
	Brooding    int
	EventCounts map[string]int
	LatestEvent *models.FlockEvent
}

// ComputeStats reduces the profile and timeline into Stats. Pure function;
// the latest event is chosen by date, falling back to list order on ties.
func ComputeStats(profile *models.FlockProfile, events []models.FlockEvent) Stats {
	stats := Stats{EventCounts: make(map[string]int)}
	if profile != nil {
		stats.TotalBirds = profile.TotalBirds()
		stats.Brooding = profile.Brooding
	}

	for i := range events {
		event := events[i]
		stats.EventCounts[event.Type]++

		if stats.LatestEvent == nil {
			stats.LatestEvent = &events[i]
			continue
		}
		current, errCurrent := period.ParseDate(stats.LatestEvent.Date)
		candidate, errCandidate := period.ParseDate(event.Date)
		if errCandidate != nil {
			continue
		}
		if errCurrent != nil || !candidate.Before(current) {
			stats.LatestEvent = &events[i]
		}
	}
	return stats
}
