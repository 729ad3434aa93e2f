package email

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"birthdays/internal/config"
	"birthdays/internal/db"
	"birthdays/internal/models"
)

type sentEmail struct {
	to      []string
	subject string
}

type fakeSender struct {
	enabled bool
	err     error
	sent    []sentEmail
}

func (f *fakeSender) IsEnabled() bool { return f.enabled }

func (f *fakeSender) SendEmail(to []string, subject, _, _ string) error {
	f.sent = append(f.sent, sentEmail{to: to, subject: subject})
	return f.err
}

type fakeUsers map[uuid.UUID]*models.User

func (f fakeUsers) GetUserByID(_ context.Context, id uuid.UUID) (*models.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, db.ErrUserNotFound
	}
	return u, nil
}

func newTestNotifier(sender *fakeSender, users fakeUsers) *Notifier {
	return &Notifier{
		sender:    sender,
		templates: testTemplates(),
		users:     users,
	}
}

func TestNewNotifier(t *testing.T) {
	notifier := NewNotifier(&config.Config{SiteTitle: "Test"}, fakeUsers{})

	if notifier.sender == nil || notifier.templates == nil {
		t.Fatal("NewNotifier should wire sender and templates")
	}
	if notifier.IsEnabled() {
		t.Error("notifier without SMTP config should be disabled")
	}
}

func TestNotifier_NotifyNewSubmission(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	link := &models.SharingLink{ID: uuid.New(), OwnerID: owner.ID}
	sub := &models.Submission{Name: "Ada", Date: models.NewDate(0, time.December, 10)}

	sender := &fakeSender{enabled: true}
	n := newTestNotifier(sender, fakeUsers{owner.ID: owner})

	if err := n.NotifyNewSubmission(context.Background(), link, sub); err != nil {
		t.Fatalf("NotifyNewSubmission() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if got := sender.sent[0].to; len(got) != 1 || got[0] != "owner@example.com" {
		t.Errorf("recipients = %v", got)
	}
}

func TestNotifier_NotifyNewSubmission_Disabled(t *testing.T) {
	sender := &fakeSender{enabled: false}
	n := newTestNotifier(sender, fakeUsers{})

	err := n.NotifyNewSubmission(context.Background(), &models.SharingLink{OwnerID: uuid.New()}, &models.Submission{})
	if err != nil {
		t.Errorf("disabled notifier should be a no-op, got %v", err)
	}
	if len(sender.sent) != 0 {
		t.Error("disabled notifier should not send")
	}
}

func TestNotifier_Errors(t *testing.T) {
	noEmail := &models.User{ID: uuid.New()}
	owner := &models.User{ID: uuid.New(), Email: "owner@example.com"}
	smtpErr := errors.New("smtp: 421")

	tests := []struct {
		name    string
		ownerID uuid.UUID
		sendErr error
		wantErr error
	}{
		{"unknown owner", uuid.New(), nil, db.ErrUserNotFound},
		{"owner without email", noEmail.ID, nil, ErrNoRecipient},
		{"smtp failure", owner.ID, smtpErr, smtpErr},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{enabled: true, err: tt.sendErr}
			n := newTestNotifier(sender, fakeUsers{noEmail.ID: noEmail, owner.ID: owner})

			err := n.NotifyNewSubmission(context.Background(), &models.SharingLink{OwnerID: tt.ownerID}, &models.Submission{Name: "x"})
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NotifyNewSubmission() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestNotifier_SendDigest(t *testing.T) {
	owner := &models.User{ID: uuid.New(), Name: "Owner", Email: "owner@example.com"}
	sender := &fakeSender{enabled: true}
	n := newTestNotifier(sender, fakeUsers{owner.ID: owner})

	if err := n.SendDigest(context.Background(), owner.ID, nil); err != nil {
		t.Fatalf("SendDigest(empty) error = %v", err)
	}
	if len(sender.sent) != 0 {
		t.Fatal("empty digest should not send")
	}

	subs := []models.Submission{{Name: "A"}, {Name: "B"}, {Name: "C"}}
	if err := n.SendDigest(context.Background(), owner.ID, subs); err != nil {
		t.Fatalf("SendDigest() error = %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d emails, want 1", len(sender.sent))
	}
	if want := "[Birthdays] 3 new birthdays waiting for review"; sender.sent[0].subject != want {
		t.Errorf("subject = %q, want %q", sender.sent[0].subject, want)
	}
}
