package models

import "time"

// DailySummary is the snapshot-in-miniature archived once per day: the
// headline numbers an operator checks before closing up the coop.
type DailySummary struct {
	Date              string    `bson:"date" json:"date"`
	GeneratedAt       time.Time `bson:"generated_at" json:"generated_at"`
	EggsToday         int       `bson:"eggs_today" json:"eggs_today"`
	EggsThisWeek      int       `bson:"eggs_this_week" json:"eggs_this_week"`
	ExpensesThisMonth float64   `bson:"expenses_this_month" json:"expenses_this_month"`
	RevenueThisMonth  float64   `bson:"revenue_this_month" json:"revenue_this_month"`
	OpenFeedBags      int       `bson:"open_feed_bags" json:"open_feed_bags"`
	TotalBirds        int       `bson:"total_birds" json:"total_birds"`
}
