package sharing

import (
	"context"

	"github.com/google/uuid"

	"birthdays/internal/models"
	"birthdays/internal/validation"
)

// The interfaces below are what transports (JSON API, GraphQL, HTML form)
// depend on.

// LinkManager is the owner-facing side of sharing links.
type LinkManager interface {
	Create(ctx context.Context, ownerID uuid.UUID, description *string, expirationHours *int) (*models.SharingLink, error)
	Revoke(ctx context.Context, ownerID, linkID uuid.UUID) (*models.SharingLink, error)
	ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SharingLink, error)
	ResolveActive(ctx context.Context, token string) (*models.SharingLink, error)
	Lookup(ctx context.Context, token string) (*models.SharingLink, error)
	AllowedExpirationHours() []int
}

// Submitter accepts anonymous submissions.
type Submitter interface {
	Submit(ctx context.Context, token, clientIP string, in validation.SubmissionInput) (*models.Submission, error)
}

// Reviewer moves pending submissions to a terminal state.
type Reviewer interface {
	ListPending(ctx context.Context, ownerID uuid.UUID) ([]ReviewItem, error)
	ImportOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error)
	RejectOne(ctx context.Context, ownerID, id uuid.UUID) (*models.Submission, error)
	ImportBulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (BulkResult, error)
	RejectBulk(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (BulkResult, error)
}

// OwnerManager covers birthdays and notification settings.
type OwnerManager interface {
	ListBirthdays(ctx context.Context, ownerID uuid.UUID) ([]models.Birthday, error)
	CreateBirthday(ctx context.Context, ownerID uuid.UUID, in validation.BirthdayInput) (*models.Birthday, error)
	DeleteBirthday(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error)
	Preferences(ctx context.Context, ownerID uuid.UUID) (*models.NotificationPreference, error)
	UpdatePreferences(ctx context.Context, ownerID uuid.UUID, email, summary *bool) (*models.NotificationPreference, error)
}

var (
	_ LinkManager  = (*LinkService)(nil)
	_ Submitter    = (*IntakeService)(nil)
	_ Reviewer     = (*ReviewService)(nil)
	_ OwnerManager = (*OwnerService)(nil)
)
