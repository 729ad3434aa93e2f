package sharing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"birthdays/internal/models"
	"birthdays/internal/ratelimit"
)

// LinkStore persists sharing links. Implemented by *db.DB.
type LinkStore interface {
	CreateSharingLink(ctx context.Context, link *models.SharingLink) error
	GetSharingLinkByID(ctx context.Context, id uuid.UUID) (*models.SharingLink, error)
	GetSharingLinkByToken(ctx context.Context, token string) (*models.SharingLink, error)
	ListSharingLinksByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.SharingLink, error)
	DeactivateSharingLink(ctx context.Context, id uuid.UUID) (*models.SharingLink, error)
}

// SubmissionStore persists submissions and their review transitions.
type SubmissionStore interface {
	CreateSubmission(ctx context.Context, sub *models.Submission, now time.Time) error
	GetSubmissionByID(ctx context.Context, id uuid.UUID) (*models.Submission, error)
	ListPendingSubmissionsByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Submission, error)
	ImportSubmission(ctx context.Context, id uuid.UUID, birthday *models.Birthday) error
	RejectSubmission(ctx context.Context, id uuid.UUID) (time.Time, error)
	MarkSubmissionForSummary(ctx context.Context, id uuid.UUID) error
}

// BirthdayStore persists an owner's birthdays.
type BirthdayStore interface {
	CreateBirthday(ctx context.Context, b *models.Birthday) error
	ListBirthdaysByOwner(ctx context.Context, ownerID uuid.UUID) ([]models.Birthday, error)
	DeleteBirthday(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error)
}

// PreferenceStore persists notification preferences.
type PreferenceStore interface {
	GetNotificationPreference(ctx context.Context, userID uuid.UUID) (*models.NotificationPreference, error)
	UpsertNotificationPreference(ctx context.Context, pref *models.NotificationPreference) error
}

// Notifier delivers an immediate new-submission notification to the owner.
type Notifier interface {
	NotifyNewSubmission(ctx context.Context, link *models.SharingLink, sub *models.Submission) error
}

// Limiter admits or refuses one request for a key.
type Limiter interface {
	Allow(ctx context.Context, key string) (ratelimit.Result, error)
}
