package eggs

import (
	"time"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
)

// Stats are the derived egg production figures. ThisWeek is the Monday-Sunday
// calendar week; Last7Days is the trailing window including today. They are
// different statistics and both are reported.
type Stats struct {
	Total        int
	Today        int
	ThisWeek     int
	ThisMonth    int
	Last7Days    int
	Last30Days   int
	DailyAverage float64
}

// ComputeStats reduces the collection into Stats. It is a pure function of
// its inputs; rows with unparseable dates are skipped. The daily average is
// total-to-date divided by days since the first entry, inclusive.
func ComputeStats(entries []models.EggEntry, now time.Time) Stats {
	var stats Stats
	var first time.Time
	today := period.Day(now)

	for _, entry := range entries {
		date, err := period.ParseDate(entry.Date)
		if err != nil {
			continue
		}

		stats.Total += entry.Count
		if date.Equal(today) {
			stats.Today += entry.Count
		}
		if period.InCalendarWeek(date, now) {
			stats.ThisWeek += entry.Count
		}
		if period.InCalendarMonth(date, now) {
			stats.ThisMonth += entry.Count
		}
		if period.InTrailingDays(date, now, 7) {
			stats.Last7Days += entry.Count
		}
		if period.InTrailingDays(date, now, 30) {
			stats.Last30Days += entry.Count
		}
		if first.IsZero() || date.Before(first) {
			first = date
		}
	}

	if !first.IsZero() {
		days := period.DaysBetween(first, today) + 1
		if days > 0 {
			stats.DailyAverage = period.Round2(float64(stats.Total) / float64(days))
		}
	}
	return stats
}
