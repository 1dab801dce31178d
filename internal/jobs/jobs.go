// Package jobs runs scheduled housekeeping.
package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// activityPruner is the subset of store.ActivityStore the prune job requires.
type activityPruner interface {
	PruneBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

// Scheduler owns the cron runner for background jobs.
type Scheduler struct {
	cron   *cron.Cron
	logger *slog.Logger
}

func NewScheduler(logger *slog.Logger) *Scheduler {
	return &Scheduler{cron: cron.New(), logger: logger}
}

// PruneActivity schedules a daily removal of activity entries older than
// retention.
func (s *Scheduler) PruneActivity(ctx context.Context, store activityPruner, retention time.Duration) error {
	job := PruneActivityJob(ctx, store, retention, time.Now, s.logger)
	if _, err := s.cron.AddFunc("@daily", job); err != nil {
		return fmt.Errorf("failed to schedule activity prune: %w", err)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started", "jobs", len(s.cron.Entries()))
}

// Stop halts scheduling and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
		s.logger.Warn("scheduler stop timed out")
	}
}

// PruneActivityJob returns the job body, with the clock injectable for tests.
func PruneActivityJob(ctx context.Context, store activityPruner, retention time.Duration, now func() time.Time, logger *slog.Logger) func() {
	return func() {
		cutoff := now().Add(-retention)
		n, err := store.PruneBefore(ctx, cutoff)
		if err != nil {
			logger.Error("activity prune failed", "error", err)
			return
		}
		logger.Info("activity pruned", "removed", n, "cutoff", cutoff.Format(time.RFC3339))
	}
}
