package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"birthdays/internal/logger"
	"birthdays/internal/models"
)

const (
	// digestOwnerPage is how many owners are loaded per page.
	digestOwnerPage = 100
	// digestMaxItems caps one digest; the rest waits for the next run.
	digestMaxItems = 500
)

// DigestStore reads and clears the submissions queued for a digest.
type DigestStore interface {
	ListSummaryOwners(ctx context.Context, after uuid.UUID, limit int) ([]uuid.UUID, error)
	ListSummaryPendingForOwner(ctx context.Context, ownerID uuid.UUID, limit int) ([]models.Submission, error)
	ClearSummaryPending(ctx context.Context, ids []uuid.UUID) error
}

// DigestSender delivers one digest to an owner.
type DigestSender interface {
	SendDigest(ctx context.Context, ownerID uuid.UUID, subs []models.Submission) error
}

// SummaryDigest periodically sends each owner who prefers summaries one
// email covering their queued submissions.
type SummaryDigest struct {
	store    DigestStore
	sender   DigestSender
	interval time.Duration
}

// NewSummaryDigest creates a new digest job.
func NewSummaryDigest(store DigestStore, sender DigestSender, interval time.Duration) *SummaryDigest {
	return &SummaryDigest{
		store:    store,
		sender:   sender,
		interval: interval,
	}
}

// Start runs the digest loop until ctx is cancelled.
func (j *SummaryDigest) Start(ctx context.Context) {
	logger.Info("summary digest started", zap.Duration("interval", j.interval))

	ticker := time.NewTicker(j.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("summary digest stopped")
			return
		case <-ticker.C:
			if _, err := j.RunOnce(ctx); err != nil {
				logger.Error("summary digest run failed", zap.Error(err))
			}
		}
	}
}

// RunOnce sends one digest per owner with queued submissions and returns
// how many digests went out. Owners are walked in id order, so every owner is
// visited each run. A failed owner keeps its queue for the next run.
func (j *SummaryDigest) RunOnce(ctx context.Context) (int, error) {
	sent, failed := 0, 0
	after := uuid.Nil
	for {
		owners, err := j.store.ListSummaryOwners(ctx, after, digestOwnerPage)
		if err != nil {
			return sent, err
		}

		for _, ownerID := range owners {
			select {
			case <-ctx.Done():
				return sent, ctx.Err()
			default:
			}

			ok, err := j.sendOwner(ctx, ownerID)
			if err != nil {
				logger.Warn("failed to send summary digest", zap.Error(err), zap.String("owner_id", ownerID.String()))
				failed++
				continue
			}
			if ok {
				sent++
			}
		}

		if len(owners) < digestOwnerPage {
			break
		}
		after = owners[len(owners)-1]
	}

	if sent > 0 || failed > 0 {
		logger.Info("summary digests sent", zap.Int("owners", sent), zap.Int("failed", failed))
	}
	return sent, nil
}

// sendOwner reports whether a digest went out for ownerID.
func (j *SummaryDigest) sendOwner(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	queued, err := j.store.ListSummaryPendingForOwner(ctx, ownerID, digestMaxItems)
	if err != nil {
		return false, fmt.Errorf("load queue: %w", err)
	}
	if len(queued) == 0 {
		return false, nil
	}

	if err := j.sender.SendDigest(ctx, ownerID, queued); err != nil {
		return false, fmt.Errorf("send %d submissions: %w", len(queued), err)
	}

	ids := make([]uuid.UUID, len(queued))
	for i, s := range queued {
		ids[i] = s.ID
	}
	if err := j.store.ClearSummaryPending(ctx, ids); err != nil {
		return false, fmt.Errorf("clear queue: %w", err)
	}
	return true, nil
}
