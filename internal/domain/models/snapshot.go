package models

// Snapshot is the canonical set of collections fetched from the backend in
// one pass. The cache provider replaces it wholesale on every refresh;
// consumers must treat it as read-only.
type Snapshot struct {
	EggEntries    []EggEntry    `json:"eggEntries"`
	Expenses      []Expense     `json:"expenses"`
	FeedInventory []FeedEntry   `json:"feedInventory"`
	FlockProfile  *FlockProfile `json:"flockProfile"`
	FlockEvents   []FlockEvent  `json:"flockEvents"`
	Customers     []Customer    `json:"customers"`
	Sales         []Sale        `json:"sales"`
}

// Clone returns a deep-enough copy for handing out to consumers: slice
// headers are duplicated so appends on the copy never alias the original.
func (s Snapshot) Clone() Snapshot {
	dup := Snapshot{
		EggEntries:    cloneSlice(s.EggEntries),
		Expenses:      cloneSlice(s.Expenses),
		FeedInventory: cloneSlice(s.FeedInventory),
		FlockEvents:   cloneSlice(s.FlockEvents),
		Customers:     cloneSlice(s.Customers),
		Sales:         cloneSlice(s.Sales),
	}
	if s.FlockProfile != nil {
		profile := *s.FlockProfile
		profile.Events = cloneSlice(s.FlockProfile.Events)
		profile.BreedTypes = cloneSlice(s.FlockProfile.BreedTypes)
		dup.FlockProfile = &profile
	}
	return dup
}

func cloneSlice[T any](items []T) []T {
	if items == nil {
		return nil
	}
	dup := make([]T, len(items))
	copy(dup, items)
	return dup
}
