package models

// Flock event types.
const (
	EventAcquisition = "acquisition"
	EventLayingStart = "laying_start"
	EventBroody      = "broody"
	EventHatching    = "hatching"
	EventOther       = "other"
)

// FlockEvent is a dated entry in the flock timeline.
type FlockEvent struct {
	ID            string `json:"id"`
	Date          string `json:"date"`
	Type          string `json:"type"`
	Description   string `json:"description"`
	AffectedBirds int    `json:"affectedBirds,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// FlockProfile is the singleton-per-user aggregate describing the current
// flock composition plus its ordered event history.
type FlockProfile struct {
	Hens        int          `json:"hens"`
	Roosters    int          `json:"roosters"`
	Chicks      int          `json:"chicks"`
	Brooding    int          `json:"brooding"`
	BreedTypes  []string     `json:"breedTypes"`
	Events      []FlockEvent `json:"events"`
	LastUpdated string       `json:"lastUpdated,omitempty"`
}

// TotalBirds sums every bird category in the profile.
func (p FlockProfile) TotalBirds() int {
	return p.Hens + p.Roosters + p.Chicks
}
