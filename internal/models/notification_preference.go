package models

import "github.com/google/uuid"

// DispatchMode is how an owner wants to hear about new submissions.
type DispatchMode int

const (
	DispatchNone DispatchMode = iota
	DispatchImmediate
	DispatchSummary
)

func (m DispatchMode) String() string {
	switch m {
	case DispatchImmediate:
		return "immediate"
	case DispatchSummary:
		return "summary"
	default:
		return "none"
	}
}

// NotificationPreference holds an owner's notification settings.
type NotificationPreference struct {
	UserID               uuid.UUID `json:"user_id"`
	EmailNotifications   bool      `json:"email_notifications"`
	SummaryNotifications bool      `json:"summary_notifications"`
}

// DefaultNotificationPreference is used when an owner has never saved settings.
func DefaultNotificationPreference(userID uuid.UUID) *NotificationPreference {
	return &NotificationPreference{
		UserID:               userID,
		EmailNotifications:   true,
		SummaryNotifications: false,
	}
}

// Conflicting reports whether both flags are set. Such a preference is
// refused on save since it names no single dispatch mode.
func (p *NotificationPreference) Conflicting() bool {
	return p.EmailNotifications && p.SummaryNotifications
}

// Mode collapses the two stored flags into a single dispatch mode. A
// conflicting row can only come from outside the service; it is treated as
// immediate so no submission goes unannounced.
func (p *NotificationPreference) Mode() DispatchMode {
	switch {
	case p == nil:
		return DispatchNone
	case p.EmailNotifications:
		return DispatchImmediate
	case p.SummaryNotifications:
		return DispatchSummary
	default:
		return DispatchNone
	}
}
