package expenses

import (
	"time"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
)

// Stats are the derived expense figures. Monetary values are rounded to two
// decimals here, at computation time, never at storage.
type Stats struct {
	Total         float64
	ThisMonth     float64
	PreviousMonth float64
	Last30Days    float64
	ByCategory    map[string]float64
}

// ComputeStats reduces the collection into Stats. Pure function; rows with
// unparseable dates are skipped.
func ComputeStats(items []models.Expense, now time.Time) Stats {
	stats := Stats{ByCategory: make(map[string]float64)}
	previousMonth := period.MonthStart(now).AddDate(0, -1, 0)

	var total, thisMonth, prevMonth, last30 float64
	byCategory := make(map[string]float64)

	for _, expense := range items {
		date, err := period.ParseDate(expense.Date)
		if err != nil {
			continue
		}

		total += expense.Amount
		byCategory[expense.Category] += expense.Amount
		if period.InCalendarMonth(date, now) {
			thisMonth += expense.Amount
		}
		if period.InCalendarMonth(date, previousMonth) {
			prevMonth += expense.Amount
		}
		if period.InTrailingDays(date, now, 30) {
			last30 += expense.Amount
		}
	}

	stats.Total = period.Round2(total)
	stats.ThisMonth = period.Round2(thisMonth)
	stats.PreviousMonth = period.Round2(prevMonth)
	stats.Last30Days = period.Round2(last30)
	for category, amount := range byCategory {
		stats.ByCategory[category] = period.Round2(amount)
	}
	return stats
}
