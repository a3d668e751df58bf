// Package expenses is the mutation and query surface for expense records.
package expenses

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
	FetchExpenses(ctx context.Context) ([]models.Expense, error)
	SaveExpenses(ctx context.Context, expenses []models.Expense) error
	DeleteExpense(ctx context.Context, id string) error
}

// Cache is the slice of the cache provider this service needs.
type Cache interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// Service composes the cache and the data API into expense operations.
type Service struct {
	api    API
	cache  Cache
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires an expense service instance.
func NewService(api API, cache Cache, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{api: api, cache: cache, logger: logger, now: time.Now}
}

// List returns the expense collection, cache snapshot first (empty included),
// direct fetch only when no snapshot has loaded.
func (s *Service) List(ctx context.Context) ([]models.Expense, error) {
	if s.cache != nil {
		if snap, ok := s.cache.Snapshot(); ok {
			return snap.Expenses, nil
		}
	}
	s.logger.Debug("cache unavailable, fetching expenses directly")
	return s.api.FetchExpenses(ctx)
}

// NewExpense is the caller-supplied portion of an expense record.
type NewExpense struct {
	Date        string
	Category    string
	Description string
	Amount      float64
}

// Add persists a new expense under a temporary id and refreshes the snapshot.
func (s *Service) Add(ctx context.Context, expense NewExpense) error {
	if err := validate(expense.Date, expense.Amount); err != nil {
		return err
	}

	record := models.Expense{
		ID:          models.NewTempID(),
		Date:        expense.Date,
		Category:    expense.Category,
		Description: expense.Description,
		Amount:      expense.Amount,
	}
	if err := s.api.SaveExpenses(ctx, []models.Expense{record}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Patch is a partial update; nil fields are left unchanged.
type Patch struct {
	Date        *string
	Category    *string
	Description *string
	Amount      *float64
}

// Update merges the patch into the full record and saves the merged record.
func (s *Service) Update(ctx context.Context, id string, patch Patch) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}

	merged, found := models.Expense{}, false
	for _, e := range items {
		if e.ID == id {
			merged, found = e, true
			break
		}
	}
	if !found {
		return fmt.Errorf("expense %s: %w", id, gateway.ErrNotFound)
	}

	if patch.Date != nil {
		merged.Date = *patch.Date
	}
	if patch.Category != nil {
		merged.Category = *patch.Category
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Amount != nil {
		merged.Amount = *patch.Amount
	}
	if err := validate(merged.Date, merged.Amount); err != nil {
		return err
	}

	if err := s.api.SaveExpenses(ctx, []models.Expense{merged}); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Delete removes an expense via the dedicated delete endpoint.
func (s *Service) Delete(ctx context.Context, id string) error {
	items, err := s.List(ctx)
	if err != nil {
		return err
	}
	found := false
	for _, e := range items {
		if e.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("expense %s: %w", id, gateway.ErrNotFound)
	}

	if err := s.api.DeleteExpense(ctx, id); err != nil {
		return err
	}
	return s.refresh(ctx)
}

// Stats computes the derived statistics over the current collection.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	items, err := s.List(ctx)
	if err != nil {
		return Stats{}, err
	}
	return ComputeStats(items, s.now()), nil
}

func (s *Service) refresh(ctx context.Context) error {
	if s.cache == nil {
		return nil
	}
	return s.cache.Refresh(ctx)
}

func validate(date string, amount float64) error {
	if _, err := period.ParseDate(date); err != nil {
		return &gateway.ValidationError{Field: "date", Message: "must be YYYY-MM-DD"}
	}
	if amount <= 0 {
		return &gateway.ValidationError{Field: "amount", Message: "must be greater than zero"}
	}
	return nil
}
