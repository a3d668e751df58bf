// Package eggs is the mutation and query surface for egg production records.
package eggs

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/gateway"
	"github.com/coopledger/coopledger/internal/period"
)

// API is the slice of the data API this service needs.
type API interface {
	FetchEggEntries(ctx context.Context) ([]models.EggEntry, error)
	SaveEggEntries(ctx context.Context, entries []models.EggEntry) error
	DeleteEggEntry(ctx context.Context, id string) error
}

// Cache is the slice of the cache provider this service needs.
type Cache interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// Service composes the cache and the data API into egg operations.
type Service struct {
	api    API
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an egg service instance.
func NewService(api API, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, cache: cache, logger: logger, now: time.Now}
}

// List returns the egg collection. The cache snapshot wins whenever the
// provider has completed a refresh, even when the collection is empty; the
// direct fetch is strictly a fallback for an unavailable cache. Checking
// non-emptiness instead would trigger redundant fetches for legitimately
// empty collections.
func (s *Service) List(ctx context.Context) ([]models.EggEntry, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.EggEntries, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching egg entries directly")
	return s.api.FetchEggEntries(ctx)
}

// NewEntry is the caller-supplied portion of an egg record.
type NewEntry struct {
	Date  string
	Count int
	Notes string
}

// Add persists a new entry under a temporary id and refreshes the snapshot.
// The temporary id never survives the refresh; the server assigns the
// permanent one.
func (s *Service) Add(ctx context.Context, entry NewEntry) error {
	if _, err := period.ParseDate(entry.Date); err != nil {
		return &gateway.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	if entry.Count < 0 {
		return &gateway.ValidationError{Field: "count", Message: "must not be negative"}
	}

	record := models.EggEntry{
		ID:    models.NewTempID(),
		Date:  entry.Date,
		Count: entry.Count,
		Notes: entry.Notes,
	}
	if err := s.api.SaveEggEntries(ctx, []models.EggEntry{record}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// HasEntryForDate reports whether an entry already exists for the date. One
// entry per date is a soft invariant; callers warn and ask for confirmation
// rather than enforce it.
func (s *Service) HasEntryForDate(ctx context.Context, date string) (bool, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return false, err
	}
	for _, e := range entries {
		if e.Date == date {
			return true, nil
		}
	}
	return false, nil
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Date  *string
	Count *int
	Notes *string
}

// Update merges the patch into the full current record and saves the entire
// merged record; the backend upserts by identity, so partials must be
// expanded client-side. A missing id is an error, never a silent no-op.
func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}

	merged, found := models.EggEntry{}, false
	for _, e := range entries {
		if e.ID == id {
			merged, found = e, true
			break
		}
	}
	if !found {
		return fmt.Errorf("egg entry %s: %w", id, gateway.ErrNotFound)
	}

	if patch.Date != nil {
		if _, err := period.ParseDate(*patch.Date); err != nil {
			return &gateway.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		merged.Date = *patch.Date
	}
	if patch.Count != nil {
		if *patch.Count < 0 {
			return &gateway.ValidationError{Field: "count", Message: "must not be negative"}
		}
		merged.Count = *patch.Count
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}

	if err := s.api.SaveEggEntries(ctx, []models.EggEntry{merged}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Delete removes an entry via the dedicated delete endpoint and refreshes.
// Filter-and-resave is not used; it loses writes under concurrent writers.
func (s *Service) Delete(ctx context.Context, id string) error {
	entries, err := s.List(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, e := range entries {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("egg entry %s: %w", id, gateway.ErrNotFound)
	}

	if err := s.api.DeleteEggEntry(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Stats computes the derived statistics over the current collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(entries, s.now()), nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Refresh(ctx)
}
