package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"birthdays/internal/config"
	"birthdays/internal/models"
)

// ErrNoRecipient is returned when the owner has no email address on file.
var ErrNoRecipient = errors.New("owner has no email address")

// UserGetter loads the owner a notification is addressed to.
type UserGetter interface {
	GetUserByID(ctx context.Context, userID uuid.UUID) (*models.User, error)
}

// Sender delivers one rendered email.
type Sender interface {
	IsEnabled() bool
	SendEmail(to []string, subject, htmlBody, textBody string) error
}

// Notifier sends email notifications for sharing-link events.
type Notifier struct {
	sender    Sender
	templates *Templates
	users     UserGetter
}

// NewNotifier creates a new email notifier backed by SMTP.
func NewNotifier(cfg *config.Config, users UserGetter) *Notifier {
	return &Notifier{
		sender:    NewService(cfg),
		templates: NewTemplates(cfg),
		users:     users,
	}
}

// IsEnabled reports whether emails will actually be sent.
func (n *Notifier) IsEnabled() bool {
	return n.sender.IsEnabled()
}

// NotifyNewSubmission emails the link owner about one new submission.
func (n *Notifier) NotifyNewSubmission(ctx context.Context, link *models.SharingLink, sub *models.Submission) error {
	if !n.sender.IsEnabled() {
		return nil
	}

	owner, err := n.recipient(ctx, link.OwnerID)
	if err != nil {
		return err
	}

	subject, htmlBody, textBody := n.templates.NewSubmission(link, sub)
	if err := n.sender.SendEmail([]string{owner.Email}, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send new submission email: %w", err)
	}
	return nil
}

// SendDigest emails the owner one summary covering subs.
func (n *Notifier) SendDigest(ctx context.Context, ownerID uuid.UUID, subs []models.Submission) error {
	if !n.sender.IsEnabled() || len(subs) == 0 {
		return nil
	}

	owner, err := n.recipient(ctx, ownerID)
	if err != nil {
		return err
	}

	subject, htmlBody, textBody := n.templates.SummaryDigest(owner, subs)
	if err := n.sender.SendEmail([]string{owner.Email}, subject, htmlBody, textBody); err != nil {
		return fmt.Errorf("send summary digest: %w", err)
	}
	return nil
}

func (n *Notifier) recipient(ctx context.Context, ownerID uuid.UUID) (*models.User, error) {
	owner, err := n.users.GetUserByID(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("load owner %s: %w", ownerID, err)
	}
	if owner.Email == "" {
		return nil, ErrNoRecipient
	}
	return owner, nil
}
