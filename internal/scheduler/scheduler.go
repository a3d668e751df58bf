package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/coopledger/coopledger/internal/config"
	"github.com/coopledger/coopledger/internal/service/reporting"
)

// Refresher re-fetches the shared snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler manages the background cache refresh and the daily summary job.
type Scheduler struct {
	cron         *cron.Cron
	cache        Refresher
	reportingSvc *reporting.Service
	cfg          config.ReportingConfig
	logger       *zap.Logger
}

// NewScheduler creates a new scheduler instance in the configured timezone.
func NewScheduler(cfg config.ReportingConfig, cache Refresher, reportingSvc *reporting.Service, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	location, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to local", zap.String("timezone", cfg.Timezone), zap.Error(err))
		location = time.Local
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(location)),
		cache:        cache,
		reportingSvc: reportingSvc,
		cfg:          cfg,
		logger:       logger,
	}
}

// Start registers the jobs and starts the cron loop.
func (s *Scheduler) Start() {
	s.logger.Info("starting scheduler",
		zap.String("refresh", s.cfg.RefreshSchedule),
		zap.String("summary", s.cfg.SummarySchedule))

	if _, err := s.cron.AddFunc(s.cfg.RefreshSchedule, s.refreshSnapshot); err != nil {
		s.logger.Error("failed to schedule snapshot refresh", zap.Error(err))
	}
	if _, err := s.cron.AddFunc(s.cfg.SummarySchedule, s.archiveSummary); err != nil {
		s.logger.Error("failed to schedule daily summary", zap.Error(err))
	}

	s.cron.Start()
}

// Stop stops the cron loop.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	s.cron.Stop()
}

func (s *Scheduler) refreshSnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	if err := s.cache.Refresh(ctx); err != nil {
		s.logger.Error("scheduled refresh failed", zap.Error(err))
	}
}

func (s *Scheduler) archiveSummary() {
	s.logger.Info("generating daily summary")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	summary, err := s.reportingSvc.ArchiveDailySummary(ctx)
	if err != nil {
		s.logger.Error("failed to archive daily summary", zap.Error(err))
		return
	}
	s.logger.Info("daily summary generated", zap.String("date", summary.Date), zap.Int("eggs_today", summary.EggsToday))
}
