package sharing

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"birthdays/internal/logger"
	"birthdays/internal/metrics"
	"birthdays/internal/models"
)

const dispatchTimeout = 30 * time.Second

// SummaryMarker flags a submission for the next summary digest.
type SummaryMarker interface {
	MarkSubmissionForSummary(ctx context.Context, id uuid.UUID) error
}

// Dispatcher decides how an owner hears about a new pending submission.
// It never delivers summaries itself; the digest job does.
type Dispatcher struct {
	prefs    PreferenceStore
	marker   SummaryMarker
	notifier Notifier
	wg       sync.WaitGroup
}

// NewDispatcher creates a dispatcher. A nil notifier turns immediate
// notifications into no-ops.
func NewDispatcher(prefs PreferenceStore, marker SummaryMarker, notifier Notifier) *Dispatcher {
	return &Dispatcher{
		prefs:    prefs,
		marker:   marker,
		notifier: notifier,
	}
}

// OnNewPendingSubmission resolves the owner's dispatch mode and acts on it.
func (d *Dispatcher) OnNewPendingSubmission(ctx context.Context, link *models.SharingLink, sub *models.Submission) (models.DispatchMode, error) {
	ctx, span := tracer.Start(ctx, "sharing.dispatch")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", sub.ID.String()))

	pref, err := d.prefs.GetNotificationPreference(ctx, link.OwnerID)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load preference failed")
		return models.DispatchNone, fmt.Errorf("load notification preference: %w", err)
	}

	mode := pref.Mode()
	span.SetAttributes(attribute.String("dispatch.mode", mode.String()))

	switch mode {
	case models.DispatchImmediate:
		if d.notifier == nil {
			break
		}
		err = d.notifier.NotifyNewSubmission(ctx, link, sub)
	case models.DispatchSummary:
		err = d.marker.MarkSubmissionForSummary(ctx, sub.ID)
	}

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "dispatch failed")
		metrics.RecordNotification(mode.String(), "error")
		return mode, fmt.Errorf("dispatch %s notification: %w", mode, err)
	}
	metrics.RecordNotification(mode.String(), "ok")
	return mode, nil
}

// Dispatch runs OnNewPendingSubmission in the background on a context that
// outlives the request. Failures are logged and never reach the submitter.
func (d *Dispatcher) Dispatch(ctx context.Context, link *models.SharingLink, sub *models.Submission) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), dispatchTimeout)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		defer cancel()

		mode, err := d.OnNewPendingSubmission(ctx, link, sub)
		if err != nil {
			logger.Error("failed to dispatch submission notification",
				zap.Error(err),
				zap.String("owner_id", link.OwnerID.String()),
				zap.String("submission_id", sub.ID.String()),
				zap.Stringer("mode", mode),
			)
			return
		}
		logger.Debug("submission notification dispatched",
			zap.String("submission_id", sub.ID.String()),
			zap.Stringer("mode", mode),
		)
	}()
}

// Wait blocks until every background dispatch has finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}
