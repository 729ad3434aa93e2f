package sharing

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"birthdays/internal/config"
	"birthdays/internal/db"
	"birthdays/internal/metrics"
	"birthdays/internal/models"
	"birthdays/internal/validation"
)

// Review actions.
const (
	ActionImport = "import"
	ActionReject = "reject"
)

// ReviewItem is a pending submission with the birthdays it may duplicate.
type ReviewItem struct {
	Submission models.Submission `json:"submission"`
	Candidates []models.Birthday `json:"candidates"`
}

// Outcome is the result of one id in a bulk review.
type Outcome struct {
	Status   string           `json:"status,omitempty"` // imported or rejected on success
	Kind     Kind             `json:"kind,omitempty"`   // set on failure
	Message  string           `json:"message,omitempty"`
	Birthday *models.Birthday `json:"birthday,omitempty"`
}

// OK reports whether the transition happened.
func (o Outcome) OK() bool {
	return o.Kind == ""
}

// BulkResult maps each requested id to its outcome.
type BulkResult map[uuid.UUID]Outcome

// Succeeded counts the ids that transitioned.
func (r BulkResult) Succeeded() int {
	n := 0
	for _, o := range r {
		if o.OK() {
			n++
		}
	}
	return n
}

// ReviewService moves pending submissions to imported or rejected.
type ReviewService struct {
	submissions SubmissionStore
	birthdays   BirthdayStore
	concurrency int
	maxIDs      int
}

// NewReviewService creates a review service with the bulk limits in policy.
func NewReviewService(submissions SubmissionStore, birthdays BirthdayStore, policy config.Policy) *ReviewService {
	concurrency := policy.BulkConcurrency
	if concurrency <= 0 {
		concurrency = 4
	}
	return &ReviewService{
		submissions: submissions,
		birthdays:   birthdays,
		concurrency: concurrency,
		maxIDs:      policy.BulkMaxIDs,
	}
}

// ListPending returns the owner's pending submissions, oldest first, each
// annotated with possible duplicates among the owner's birthdays.
func (s *ReviewService) ListPending(ctx context.Context, ownerID uuid.UUID) ([]ReviewItem, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}

	pending, err := s.submissions.ListPendingSubmissionsByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal("list pending submissions", err)
	}
	if len(pending) == 0 {
		return []ReviewItem{}, nil
	}

	existing, err := s.birthdays.ListBirthdaysByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal("list birthdays", err)
	}

	items := make([]ReviewItem, len(pending))
	for i := range pending {
		items[i] = ReviewItem{
			Submission: pending[i],
			Candidates: FindCandidates(&pending[i], existing),
		}
	}
	return items, nil
}

// ImportOne turns a pending submission into a birthday.
func (s *ReviewService) ImportOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error) {
	ctx, span := tracer.Start(ctx, "sharing.import")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id.String()))

	b, err := s.importOne(ctx, ownerID, id)
	s.record(ActionImport, err)
	if err != nil && KindOf(err) == KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, "import failed")
	}
	return b, err
}

func (s *ReviewService) importOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error) {
	sub, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}

	b := sub.ToBirthday()
	err = s.submissions.ImportSubmission(ctx, id, b)
	if err != nil {
		return nil, storeError("import submission", err)
	}
	return b, nil
}

// RejectOne marks a pending submission rejected and returns it in its new
// state.
func (s *ReviewService) RejectOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Submission, error) {
	ctx, span := tracer.Start(ctx, "sharing.reject")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", id.String()))

	sub, err := s.rejectOne(ctx, ownerID, id)
	s.record(ActionReject, err)
	if err != nil && KindOf(err) == KindInternal {
		span.RecordError(err)
		span.SetStatus(codes.Error, "reject failed")
	}
	return sub, err
}

func (s *ReviewService) rejectOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Submission, error) {
	sub, err := s.authorize(ctx, ownerID, id)
	if err != nil {
		return nil, err
	}
	reviewedAt, err := s.submissions.RejectSubmission(ctx, id)
	if err != nil {
		return nil, storeError("reject submission", err)
	}
	sub.Status = models.StatusRejected
	sub.SummaryPending = false
	sub.ReviewedAt = &reviewedAt
	return sub, nil
}

// ImportBulk imports each id independently.
func (s *ReviewService) ImportBulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (BulkResult, error) {
	return s.bulk(ctx, ownerID, ids, func(ctx context.Context, id uuid.UUID) Outcome {
		b, err := s.ImportOne(ctx, ownerID, id)
		if err != nil {
			return failed(err)
		}
		return Outcome{Status: models.StatusImported, Birthday: b}
	})
}

// RejectBulk rejects each id independently.
func (s *ReviewService) RejectBulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (BulkResult, error) {
	return s.bulk(ctx, ownerID, ids, func(ctx context.Context, id uuid.UUID) Outcome {
		if _, err := s.RejectOne(ctx, ownerID, id); err != nil {
			return failed(err)
		}
		return Outcome{Status: models.StatusRejected}
	})
}

// bulk applies op to every distinct id with bounded concurrency. One id
// failing never affects another. Once ctx is cancelled, ids not yet started
// are reported as internal failures; committed transitions stay committed.
func (s *ReviewService) bulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID, op func(context.Context, uuid.UUID) Outcome) (BulkResult, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}

	unique := make([]uuid.UUID, 0, len(ids))
	seen := make(map[uuid.UUID]struct{}, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		unique = append(unique, id)
	}

	if len(unique) == 0 {
		return nil, Validation(validation.Errors{{Field: "ids", Message: "ids must not be empty"}})
	}
	if s.maxIDs > 0 && len(unique) > s.maxIDs {
		return nil, Validation(validation.Errors{{
			Field:   "ids",
			Message: fmt.Sprintf("ids must contain at most %d entries", s.maxIDs),
		}})
	}

	var (
		mu     sync.Mutex
		result = make(BulkResult, len(unique))
	)
	// No errgroup context: a failing id must not cancel its siblings.
	var g errgroup.Group
	g.SetLimit(s.concurrency)
	for _, id := range unique {
		g.Go(func() error {
			var out Outcome
			if err := ctx.Err(); err != nil {
				out = failed(Internal("review cancelled", err))
			} else {
				out = op(ctx, id)
			}
			mu.Lock()
			result[id] = out
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	return result, nil
}

// authorize loads id and checks it belongs to ownerID.
func (s *ReviewService) authorize(ctx context.Context, ownerID, id uuid.UUID) (*models.Submission, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	sub, err := s.submissions.GetSubmissionByID(ctx, id)
	if errors.Is(err, db.ErrSubmissionNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Internal("get submission", err)
	}
	if sub.OwnerID != ownerID {
		return nil, ErrForbidden
	}
	if !sub.IsPending() {
		return nil, ErrInvalidState
	}
	return sub, nil
}

func (s *ReviewService) record(action string, err error) {
	if err == nil {
		if action == ActionImport {
			metrics.RecordReview(action, models.StatusImported)
		} else {
			metrics.RecordReview(action, models.StatusRejected)
		}
		return
	}
	metrics.RecordReview(action, string(KindOf(err)))
}

// storeError maps store failures of a review transition.
func storeError(op string, err error) error {
	switch {
	case errors.Is(err, db.ErrSubmissionNotPending):
		// Lost a race with another reviewer.
		return ErrInvalidState
	case errors.Is(err, db.ErrSubmissionNotFound):
		return ErrNotFound
	default:
		return Internal(op, err)
	}
}

func failed(err error) Outcome {
	e := AsError(err)
	return Outcome{Kind: e.Kind, Message: e.Message}
}
