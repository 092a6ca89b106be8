package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/example/hifz/pkg/models"
)

// StatsSource provides progress statistics
type StatsSource interface {
	GetProgressStats(ctx context.Context, now time.Time) (models.ProgressStats, error)
}

// Reporter receives each digest
type Reporter interface {
	Report(at time.Time, stats models.ProgressStats) error
}

// Scheduler runs the periodic progress digest. It only reads statistics.
type Scheduler struct {
	scheduler *gocron.Scheduler
	source    StatsSource
	reporter  Reporter
	interval  time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a new scheduler instance
func New(source StatsSource, reporter Reporter, interval time.Duration, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		scheduler: gocron.NewScheduler(time.UTC),
		source:    source,
		reporter:  reporter,
		interval:  interval,
		logger:    logger,
		now:       time.Now,
	}
}

// Start runs the digest immediately and then every interval, without blocking
func (s *Scheduler) Start(ctx context.Context) error {
	_, err := s.scheduler.Every(s.interval).SingletonMode().Do(func() {
		if err := s.RunOnce(ctx); err != nil {
			s.logger.Error("progress digest failed", slog.String("error", err.Error()))
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	s.scheduler.StartAsync()
	return nil
}

// Stop terminates all scheduled tasks
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
}

// RunOnce reads the current statistics and hands them to the reporter
func (s *Scheduler) RunOnce(ctx context.Context) error {
	now := s.now()
	stats, err := s.source.GetProgressStats(ctx, now)
	if err != nil {
		return err
	}
	s.logger.Debug("progress digest",
		slog.Int("total", stats.TotalItems),
		slog.Int("due", stats.DueToday))
	return s.reporter.Report(now, stats)
}
