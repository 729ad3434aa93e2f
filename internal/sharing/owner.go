package sharing

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"birthdays/internal/db"
	"birthdays/internal/models"
	"birthdays/internal/validation"
)

// OwnerService covers the owner's own birthdays and notification settings.
type OwnerService struct {
	birthdays BirthdayStore
	prefs     PreferenceStore
	now       func() time.Time
}

// NewOwnerService creates an owner service.
func NewOwnerService(birthdays BirthdayStore, prefs PreferenceStore) *OwnerService {
	return &OwnerService{birthdays: birthdays, prefs: prefs, now: time.Now}
}

// ListBirthdays returns the owner's birthdays in calendar order.
func (s *OwnerService) ListBirthdays(ctx context.Context, ownerID uuid.UUID) ([]models.Birthday, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	birthdays, err := s.birthdays.ListBirthdaysByOwner(ctx, ownerID)
	if err != nil {
		return nil, Internal("list birthdays", err)
	}
	return birthdays, nil
}

// CreateBirthday validates and stores a birthday entered by the owner.
func (s *OwnerService) CreateBirthday(ctx context.Context, ownerID uuid.UUID, in validation.BirthdayInput) (*models.Birthday, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	b, errs := validation.ValidateBirthday(in, s.now())
	if len(errs) > 0 {
		return nil, Validation(errs)
	}
	b.OwnerID = ownerID
	if err := s.birthdays.CreateBirthday(ctx, b); err != nil {
		return nil, Internal("create birthday", err)
	}
	return b, nil
}

// DeleteBirthday removes one of the owner's birthdays and returns it.
// Another owner's id reports NOT_FOUND.
func (s *OwnerService) DeleteBirthday(ctx context.Context, ownerID, id uuid.UUID) (*models.Birthday, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	b, err := s.birthdays.DeleteBirthday(ctx, ownerID, id)
	if errors.Is(err, db.ErrBirthdayNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, Internal("delete birthday", err)
	}
	return b, nil
}

// Preferences returns the owner's notification settings, or the defaults.
func (s *OwnerService) Preferences(ctx context.Context, ownerID uuid.UUID) (*models.NotificationPreference, error) {
	if ownerID == uuid.Nil {
		return nil, ErrForbidden
	}
	pref, err := s.prefs.GetNotificationPreference(ctx, ownerID)
	if err != nil {
		return nil, Internal("get notification preference", err)
	}
	return pref, nil
}

// UpdatePreferences changes the flags that are non-nil and keeps the rest.
func (s *OwnerService) UpdatePreferences(ctx context.Context, ownerID uuid.UUID, email, summary *bool) (*models.NotificationPreference, error) {
	pref, err := s.Preferences(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if email != nil {
		pref.EmailNotifications = *email
	}
	if summary != nil {
		pref.SummaryNotifications = *summary
	}
	if pref.Conflicting() {
		const msg = "emailNotifications and summaryNotifications cannot both be enabled"
		return nil, Validation(validation.Errors{
			{Field: "emailNotifications", Message: msg},
			{Field: "summaryNotifications", Message: msg},
		})
	}
	if err := s.prefs.UpsertNotificationPreference(ctx, pref); err != nil {
		return nil, Internal("update notification preference", err)
	}
	return pref, nil
}
