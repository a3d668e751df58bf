// Package flock manages the singleton flock profile and its event timeline.
package flock

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
	FetchAll(ctx context.Context) (models.Snapshot, error)
	SaveFlockProfile(ctx context.Context, profile models.FlockProfile) error
	SaveFlockEvents(ctx context.Context, events []models.FlockEvent) error
	DeleteFlockEvent(ctx context.Context, id string) error
}

// Cache is the slice of the cache provider this service needs.
type Cache interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// Service composes the cache and the data API into flock operations.
type Service struct {
	api    API
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a flock service instance.
func NewService(api API, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, cache: cache, logger: logger, now: time.Now}
}

// Profile returns the flock profile, or nil when none has been created yet.
// The cache snapshot wins whenever one has loaded; a nil profile inside a
// loaded snapshot means "not created", not "cache miss".
func (s *Service) Profile(ctx context.Context) (*models.FlockProfile, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.FlockProfile, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching flock profile directly")
	snap, err := s.api.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return snap.FlockProfile, nil
}

// SaveProfile replaces the singleton profile wholesale and refreshes.
func (s *Service) SaveProfile(ctx context.Context, profile models.FlockProfile) error {
	if profile.Hens < 0 || profile.Roosters < 0 || profile.Chicks < 0 || profile.Brooding < 0 {
		return &gateway.ValidationError{Field: "counts", Message: "bird counts must not be negative"}
	}

	profile.LastUpdated = s.now().UTC().Format(time.RFC3339)
	if err := s.api.SaveFlockProfile(ctx, profile); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Events returns the flock timeline, cache snapshot first (empty included).
func (s *Service) Events(ctx context.Context) ([]models.FlockEvent, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.FlockEvents, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching flock events directly")
	snap, err := s.api.FetchAll(ctx)
	if err != nil {
		return nil, err
	}
	return snap.FlockEvents, nil
}

// NewEvent is the caller-supplied portion of a timeline event.
type NewEvent struct {
	Date          string
	Type          string
	Description   string
	AffectedBirds int
	Notes         string
}

// AddEvent appends a timeline event under a temporary id and refreshes.
func (s *Service) AddEvent(ctx context.Context, event NewEvent) error {
	if _, err := period.ParseDate(event.Date); err != nil {
		return &gateway.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	if !validEventType(event.Type) {
		return &gateway.ValidationError{Field: "type", Message: "unknown event type"}
	}

	record := models.FlockEvent{
		ID:            models.NewTempID(),
		Date:          event.Date,
		Type:          event.Type,
		Description:   event.Description,
		AffectedBirds: event.AffectedBirds,
		Notes:         event.Notes,
	}
	if err := s.api.SaveFlockEvents(ctx, []models.FlockEvent{record}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// EventPatch is a partial update; nil fields are left unchanged.
type EventPatch struct {
	Date          *string
	Type          *string
	Description   *string
	AffectedBirds *int
	Notes         *string
}

// UpdateEvent merges the patch into the full event and saves the merged
// record.
func (s *Service) UpdateEvent(ctx context.Context, id string, patch EventPatch) error {
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}

	merged, found := models.FlockEvent{}, false
	for _, e := range events {
		if e.ID == id {
			merged, found = e, true
			break
		}
	}
	if !found {
		return fmt.Errorf("flock event %s: %w", id, gateway.ErrNotFound)
	}

	if patch.Date != nil {
		if _, err := period.ParseDate(*patch.Date); err != nil {
			return &gateway.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
		}
		merged.Date = *patch.Date
	}
	if patch.Type != nil {
		if !validEventType(*patch.Type) {
			return &gateway.ValidationError{Field: "type", Message: "unknown event type"}
		}
		merged.Type = *patch.Type
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.AffectedBirds != nil {
		merged.AffectedBirds = *patch.AffectedBirds
	}
	if patch.Notes != nil {
		merged.Notes = *patch.Notes
	}

	if err := s.api.SaveFlockEvents(ctx, []models.FlockEvent{merged}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// DeleteEvent removes a timeline event via the dedicated delete endpoint.
func (s *Service) DeleteEvent(ctx context.Context, id string) error {
	events, err := s.Events(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, e := range events {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("flock event %s: %w", id, gateway.ErrNotFound)
	}

	if err := s.api.DeleteFlockEvent(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Stats computes derived flock figures from the profile and timeline.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	profile, err := s.Profile(ctx)
	if err != nil {
		return Stats{}, err
	}
	events, err := s.Events(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(profile, events), nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Refresh(ctx)
}

func validEventType(eventType string) bool {
	switch eventType {
	case models.EventAcquisition, models.EventLayingStart, models.EventBroody, models.EventHatching, models.EventOther:
		return true
	}
	return false
}
