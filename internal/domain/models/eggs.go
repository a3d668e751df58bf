package models

// EggEntry records the eggs collected on a single date. One entry per date is
// the expected shape; the backend tolerates duplicates, so callers warn rather
// than enforce uniqueness.
type EggEntry struct {
	ID        string `json:"id"`
	Date      string `json:"date"`
	Count     int    `json:"count"`
	Notes     string `json:"notes,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}
