// Package feed is the mutation and query surface for feed inventory.
package feed

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/gateway"
	"github.com/coopledger/coopledger/internal/period"
	"github.com/coopledger/coopledger/internal/service/expenses"
)

// API is the slice of the data API this service needs.
type API interface {
	FetchFeedInventory(ctx context.Context) ([]models.FeedEntry, error)
	SaveFeedEntries(ctx context.Context, entries []models.FeedEntry) error
	DeleteFeedEntry(ctx context.Context, id string) error
}

// Cache is the slice of the cache provider this service needs.
type Cache interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// ExpenseLogger records the expense that accompanies a feed purchase. The two
// writes are independent calls with no atomicity between them.
type ExpenseLogger interface {
	Add(ctx context.Context, expense expenses.NewExpense) error
}

// Service composes the cache and the data API into feed operations.
type Service struct {
	api      API
	cache    Cache
	expenses ExpenseLogger
	logger   *zap.Logger
	now      func() time.Time
}

// NewService wires a feed service instance. expenseLogger may be nil when
// purchases should not generate expenses.
func NewService(api API, cache Cache, expenseLogger ExpenseLogger, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, cache: cache, expenses: expenseLogger, logger: logger, now: time.Now}
}

// List returns the feed collection, cache snapshot first (empty included),
// direct fetch only when no snapshot has loaded.
func (s *Service) List(ctx context.Context) ([]models.FeedEntry, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.FeedInventory, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching feed inventory directly")
	return s.api.FetchFeedInventory(ctx)
}

// NewEntry is the caller-supplied portion of a feed purchase.
type NewEntry struct {
	Brand        string
	Type         string
	Quantity     float64
	Unit         string
	OpenedDate   string
	PricePerUnit float64
	BatchNumber  string
}

// Add records a feed purchase and refreshes the snapshot. When an expense
// logger is wired, the matching expense is written as a second, independent
// call; its failure does not roll back the feed entry.
func (s *Service) Add(ctx context.Context, entry NewEntry) error {
	if err := validateNewEntry(entry); err != nil {
		return err
	}

	record := models.FeedEntry{
		ID:           models.NewTempID(),
		Brand:        entry.Brand,
		Type:         entry.Type,
		Quantity:     entry.Quantity,
		Unit:         entry.Unit,
		OpenedDate:   entry.OpenedDate,
		PricePerUnit: entry.PricePerUnit,
		BatchNumber:  entry.BatchNumber,
	}
	if err := s.api.SaveFeedEntries(ctx, []models.FeedEntry{record}); err != nil {
		return err
	}

	if s.expenses != nil && entry.PricePerUnit > 0 {
		expense := expenses.NewExpense{
			Date:        entry.OpenedDate,
			Category:    "feed",
			Description: fmt.Sprintf("%s %s (%g %s)", entry.Brand, entry.Type, entry.Quantity, entry.Unit),
			Amount:      entry.Quantity * entry.PricePerUnit,
		}
		if err := s.expenses.Add(ctx, expense); err != nil {
			s.logger.Warn("feed purchase saved but expense write failed", zap.Error(err))
		}
	}
	return s.refresh(ctx)
}

// Deplete closes out an open entry. The depleted date is set exactly once;
// depleting an already-closed entry is a validation error.
func (s *Service) Deplete(ctx context.Context, id, depletedDate string) error {
	entry, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if entry.Depleted() {
		return &gateway.ValidationError{Field: "depletedDate", Message: "entry is already depleted"}
	}

	depleted, err := period.ParseDate(depletedDate)
	if err != nil {
		return &gateway.ValidationError{Field: "depletedDate", Message: "must be YYYY-MM-DD"}
	}
	if opened, err := period.ParseDate(entry.OpenedDate); err == nil && depleted.Before(opened) {
		return &gateway.ValidationError{Field: "depletedDate", Message: "must not precede openedDate"}
	}

	entry.DepletedDate = depletedDate
	if err := s.api.SaveFeedEntries(ctx, []models.FeedEntry{entry}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Brand        *string
	Type         *string
	Quantity     *float64
	Unit         *string
	OpenedDate   *string
	DepletedDate *string
	PricePerUnit *float64
	BatchNumber  *string
}

// Update merges the patch into the full record and saves the merged record.
func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	merged, err := s.find(ctx, id)
	if err != nil {
		return err
	}

	if patch.Brand != nil {
		merged.Brand = *patch.Brand
	}
	if patch.Type != nil {
		merged.Type = *patch.Type
	}
	if patch.Quantity != nil {
		merged.Quantity = *patch.Quantity
	}
	if patch.Unit != nil {
		merged.Unit = *patch.Unit
	}
	if patch.OpenedDate != nil {
		merged.OpenedDate = *patch.OpenedDate
	}
	if patch.DepletedDate != nil {
		merged.DepletedDate = *patch.DepletedDate
	}
	if patch.PricePerUnit != nil {
		merged.PricePerUnit = *patch.PricePerUnit
	}
	if patch.BatchNumber != nil {
		merged.BatchNumber = *patch.BatchNumber
	}
	if err := validateEntry(merged); err != nil {
		return err
	}

	if err := s.api.SaveFeedEntries(ctx, []models.FeedEntry{merged}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Delete removes a feed entry via the dedicated delete endpoint.
func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.find(ctx, id); err != nil {
		return err
	}
	if err := s.api.DeleteFeedEntry(ctx, id); err != nil {
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
	return ComputeStats(entries), nil
}

func (s *Service) find(ctx context.Context, id string) (models.FeedEntry, error) {
	entries, err := s.List(ctx)
	if err != nil {
		return models.FeedEntry{}, err
	}
	for _, e := range entries {
		if e.ID == id {
			return e, nil
		}
	}
	return models.FeedEntry{}, fmt.Errorf("feed entry %s: %w", id, gateway.ErrNotFound)
}

func (s *Service) refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Refresh(ctx)
}

func validateNewEntry(entry NewEntry) error {
	return validateEntry(models.FeedEntry{
		Quantity:     entry.Quantity,
		Unit:         entry.Unit,
		OpenedDate:   entry.OpenedDate,
		PricePerUnit: entry.PricePerUnit,
	})
}

func validateEntry(entry models.FeedEntry) error {
	if _, err := period.ParseDate(entry.OpenedDate); err != nil {
		return &gateway.ValidationError{Field: "openedDate", Message: "must be YYYY-MM-DD"}
	}
	if entry.Quantity <= 0 {
		return &gateway.ValidationError{Field: "quantity", Message: "must be greater than zero"}
	}
	if entry.Unit != models.UnitKg && entry.Unit != models.UnitLbs {
		return &gateway.ValidationError{Field: "unit", Message: "must be kg or lbs"}
	}
	if entry.PricePerUnit < 0 {
		return &gateway.ValidationError{Field: "pricePerUnit", Message: "must not be negative"}
	}
	return nil
}
