// Package reporting assembles the daily summary an operator reads at the end
// of the day, and optionally archives it.
package reporting

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/domain/models"
	"github.com/coopledger/coopledger/internal/period"
	"github.com/coopledger/coopledger/internal/service/crm"
	"github.com/coopledger/coopledger/internal/service/eggs"
	"github.com/coopledger/coopledger/internal/service/expenses"
	"github.com/coopledger/coopledger/internal/service/feed"
)

// Source provides the snapshot the summary is computed from.
type Source interface {
	Snapshot() (models.Snapshot, bool)
	Refresh(ctx context.Context) error
}

// Archive persists generated summaries.
type Archive interface {
	SaveDailySummary(ctx context.Context, summary models.DailySummary) error
}

// Service builds daily summaries from the cache snapshot.
type Service struct {
	cache   Source
	archive Archive
	logger  *zap.Logger
	now     func() time.Time
}

// NewService wires a reporting service. archive may be nil, in which case
// summaries are generated but never persisted.
func NewService(cache Source, archive Archive, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{cache: cache, archive: archive, logger: logger, now: time.Now}
}

// BuildDailySummary reduces the current snapshot into a daily summary,
// refreshing first when no snapshot has loaded yet.
func (s *Service) BuildDailySummary(ctx context.Context) (models.DailySummary, error) {
	snap, ok := s.cache.Snapshot()
	if !ok {
		if err := s.cache.Refresh(ctx); err != nil {
			return models.DailySummary{}, fmt.Errorf("refresh before summary: %w", err)
		}
		snap, _ = s.cache.Snapshot()
	}

	now := s.now().UTC()
	eggStats := eggs.ComputeStats(snap.EggEntries, now)
	expenseStats := expenses.ComputeStats(snap.Expenses, now)
	feedStats := feed.ComputeStats(snap.FeedInventory)
	saleStats := crm.ComputeStats(snap.Sales, now)

	summary := models.DailySummary{
		Date:              now.Format(period.DateLayout),
		GeneratedAt:       now,
		EggsToday:         eggStats.Today,
		EggsThisWeek:      eggStats.ThisWeek,
		ExpensesThisMonth: expenseStats.ThisMonth,
		RevenueThisMonth:  saleStats.RevenueThisMonth,
		OpenFeedBags:      feedStats.OpenCount,
	}
	if snap.FlockProfile != nil {
		summary.TotalBirds = snap.FlockProfile.TotalBirds()
	}
	return summary, nil
}

// ArchiveDailySummary builds the summary and persists it when an archive is
// configured.
func (s *Service) ArchiveDailySummary(ctx context.Context) (models.DailySummary, error) {
	summary, err := s.BuildDailySummary(ctx)
	if err != nil {
		return models.DailySummary{}, err
	}

	if s.archive == nil {
		s.logger.Debug("no archive configured, summary not persisted")
		return summary, nil
	}
	if err := s.archive.SaveDailySummary(ctx, summary); err != nil {
		return models.DailySummary{}, fmt.Errorf("archive daily summary: %w", err)
	}
	s.logger.Info("daily summary archived", zap.String("date", summary.Date))
	return summary, nil
}

// Format renders a summary as the one-paragraph text shown in the CLI.
func Format(summary models.DailySummary) string {
	return fmt.Sprintf(
		"Summary %s: %d eggs today (%d this week), %.2f spent this month, %.2f earned this month, %d open feed bags, %d birds.",
		summary.Date, summary.EggsToday, summary.EggsThisWeek,
		summary.ExpensesThisMonth, summary.RevenueThisMonth,
		summary.OpenFeedBags, summary.TotalBirds)
}
