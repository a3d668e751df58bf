package feed

import (
	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
)

// Stats are the derived feed inventory figures. Only depleted entries carry a
// duration, so the consumption averages cover the closed portion of the
// inventory.
type Stats struct {
	OpenCount       int
	DepletedCount   int
	TotalSpend      float64
	AvgDurationDays float64
}

// ComputeStats reduces the collection into Stats. Pure function.
func ComputeStats(entries []models.FeedEntry) Stats {
	var stats Stats
	var spend float64
	var durationSum, durationCount int

	for _, entry := range entries {
		spend += entry.Quantity * entry.PricePerUnit
		if !entry.Depleted() {
			stats.OpenCount++
			continue
		}
		stats.DepletedCount++
		if days, ok := DurationDays(entry); ok {
			durationSum += days
			durationCount++
		}
	}

	stats.TotalSpend = period.Round2(spend)
	if durationCount > 0 {
		stats.AvgDurationDays = period.Round2(float64(durationSum) / float64(durationCount))
	}
	return stats
}

// DurationDays returns how many days a depleted entry lasted, from opened to
// depleted date. The second return is false for open or undated entries.
func DurationDays(entry models.FeedEntry) (int, bool) {
	if !entry.Depleted() {
		return 0, false
	}
	opened, err := period.ParseDate(entry.OpenedDate)
	if err != nil {
		return 0, false
	}
	depleted, err := period.ParseDate(entry.DepletedDate)
	if err != nil {
		return 0, false
	}
	days := period.DaysBetween(opened, depleted)
	if days < 0 {
		return 0, false
	}
	return days, true
}

// ConsumptionRate returns quantity consumed per day for a depleted entry.
// Entries depleted the day they were opened count as one day.
func ConsumptionRate(entry models.FeedEntry) (float64, bool) {
	days, ok := DurationDays(entry)
	if !ok {
		return 0, false
	}
	if days == 0 {
		days = 1
	}
	return entry.Quantity / float64(days), true
}
