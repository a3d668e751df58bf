package models

// Feed quantity units accepted on the wire.
const (
	UnitKg  = "kg"
	UnitLbs = "lbs"
)

// FeedEntry tracks one purchased bag or batch of feed. An entry is "open"
// from OpenedDate until DepletedDate is set, which happens exactly once and
// makes the entry eligible for consumption-rate statistics.
type FeedEntry struct {
	ID           string  `json:"id"`
	Brand        string  `json:"brand"`
	Type         string  `json:"type"`
	Quantity     float64 `json:"quantity"`
	Unit         string  `json:"unit"`
	OpenedDate   string  `json:"openedDate"`
	DepletedDate string  `json:"depletedDate,omitempty"`
	PricePerUnit float64 `json:"pricePerUnit"`
	BatchNumber  string  `json:"batchNumber,omitempty"`
}

// Depleted reports whether the entry has been closed out.
func (f FeedEntry) Depleted() bool {
	return f.DepletedDate != ""
}
