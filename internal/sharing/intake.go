// Package sharing implements sharing links, anonymous submission intake and
// the owner's review workflow.
package sharing

import (
	"context"
	"errors"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.uber.org/zap"

	"birthdays/internal/db"
	"birthdays/internal/logger"
	"birthdays/internal/metrics"
	"birthdays/internal/models"
	"birthdays/internal/validation"
)

var tracer = otel.Tracer("birthdays/sharing")

// IntakeService accepts anonymous submissions through sharing links.
type IntakeService struct {
	links        *LinkService
	submissions  SubmissionStore
	tokenLimiter Limiter
	ipLimiter    Limiter
	dispatcher   *Dispatcher
	now          func() time.Time
}

// NewIntakeService creates the intake pipeline. ipLimiter and dispatcher may
// be nil.
func NewIntakeService(links *LinkService, submissions SubmissionStore, tokenLimiter, ipLimiter Limiter, dispatcher *Dispatcher) *IntakeService {
	return &IntakeService{
		links:        links,
		submissions:  submissions,
		tokenLimiter: tokenLimiter,
		ipLimiter:    ipLimiter,
		dispatcher:   dispatcher,
		now:          time.Now,
	}
}

// Submit resolves token, applies rate limits, validates input and stores a
// pending submission. clientIP may be empty when the transport has none.
func (s *IntakeService) Submit(ctx context.Context, token, clientIP string, in validation.SubmissionInput) (*models.Submission, error) {
	ctx, span := tracer.Start(ctx, "sharing.submit")
	defer span.End()

	sub, link, err := s.submit(ctx, token, clientIP, in)
	metrics.RecordSubmission(outcomeLabel(err))
	if err != nil {
		span.SetAttributes(attribute.String("error.kind", string(KindOf(err))))
		if KindOf(err) == KindInternal {
			span.RecordError(err)
			span.SetStatus(codes.Error, "submission failed")
			logger.Error("submission failed", zap.Error(err))
		}
		return nil, err
	}

	span.SetAttributes(attribute.String("submission.id", sub.ID.String()))
	if s.dispatcher != nil {
		s.dispatcher.Dispatch(ctx, link, sub)
	}
	return sub, nil
}

func (s *IntakeService) submit(ctx context.Context, token, clientIP string, in validation.SubmissionInput) (*models.Submission, *models.SharingLink, error) {
	link, err := s.links.ResolveActive(ctx, token)
	if err != nil {
		return nil, nil, err
	}

	if err := s.checkLimit(ctx, s.tokenLimiter, "token:"+token); err != nil {
		return nil, nil, err
	}
	if clientIP != "" {
		if err := s.checkLimit(ctx, s.ipLimiter, "ip:"+clientIP); err != nil {
			return nil, nil, err
		}
	}

	now := s.now()
	valid, errs := validation.ValidateSubmission(in, now)
	if len(errs) > 0 {
		return nil, nil, Validation(errs)
	}

	sub := valid.ToModel()
	sub.LinkID = link.ID
	err = s.submissions.CreateSubmission(ctx, sub, now)
	switch {
	case errors.Is(err, db.ErrLinkInactive), errors.Is(err, db.ErrSharingLinkNotFound):
		// Revoked or expired between resolve and insert.
		return nil, nil, ErrExpiredOrInvalid
	case err != nil:
		return nil, nil, Internal("store submission", err)
	}

	link.SubmissionCount++
	return sub, link, nil
}

func (s *IntakeService) checkLimit(ctx context.Context, l Limiter, key string) error {
	if l == nil {
		return nil
	}
	res, err := l.Allow(ctx, key)
	if err != nil {
		return Internal("rate limit", err)
	}
	if !res.Allowed {
		return RateLimited(res.RetryAfter)
	}
	return nil
}

func outcomeLabel(err error) string {
	if err == nil {
		return "accepted"
	}
	return string(KindOf(err))
}
