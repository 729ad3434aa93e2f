package jobs

import (
	"context"
	"time"

	"go.uber.org/zap"

	"birthdays/internal/logger"
	"birthdays/internal/metrics"
)

// LinkPurger deletes links that stopped accepting submissions before cutoff.
type LinkPurger interface {
	DeleteStaleSharingLinks(ctx context.Context, cutoff time.Time) (int64, error)
}

// LinkCleanup removes sharing links that expired or were revoked longer than
// the retention period ago and have no pending submissions left.
type LinkCleanup struct {
	store     LinkPurger
	interval  time.Duration
	retention time.Duration
	now       func() time.Time
}

// NewLinkCleanup creates a new cleanup job.
func NewLinkCleanup(store LinkPurger, interval, retention time.Duration) *LinkCleanup {
	return &LinkCleanup{
		store:     store,
		interval:  interval,
		retention: retention,
		now:       time.Now,
	}
}

// Start begins the background cleanup loop.
func (j *LinkCleanup) Start(ctx context.Context) {
	logger.Info("link cleanup started",
		zap.Duration("interval", j.interval),
		zap.Duration("retention", j.retention),
	)

	// Run immediately on start
	j.runAndLog(ctx)

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("link cleanup stopped")
			return
		case <-ticker.C:
			j.runAndLog(ctx)
		}
	}
}

// RunOnce purges stale links and returns how many were deleted.
func (j *LinkCleanup) RunOnce(ctx context.Context) (int64, error) {
	cutoff := j.now().Add(-j.retention)
	n, err := j.store.DeleteStaleSharingLinks(ctx, cutoff)
	if err != nil {
		return 0, err
	}
	if n > 0 {
		metrics.RecordLinkEvent("purged", int(n))
	}
	return n, nil
}

func (j *LinkCleanup) runAndLog(ctx context.Context) {
	n, err := j.RunOnce(ctx)
	if err != nil {
		logger.Error("link cleanup failed", zap.Error(err))
		return
	}
	if n > 0 {
		logger.Info("stale sharing links purged", zap.Int64("deleted", n))
	}
}
