package models

import (
	"testing"

	"github.com/google/uuid"
)

func TestUser_DisplayName(t *testing.T) {
	tests := []struct {
		name     string
		user     User
		expected string
	}{
		{"name preferred", User{Name: "Ada", Email: "ada@example.com", Sub: "s1"}, "Ada"},
		{"email fallback", User{Email: "ada@example.com", Sub: "s1"}, "ada@example.com"},
		{"sub fallback", User{Sub: "s1"}, "s1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.user.DisplayName(); got != tt.expected {
				t.Errorf("DisplayName() = %q, want %q", got, tt.expected)
			}
		})
	}
}

func TestUser_Owns(t *testing.T) {
	id := uuid.New()
	user := &User{ID: id}

	if !user.Owns(id) {
		t.Error("Owns() = false for own id")
	}
	if user.Owns(uuid.New()) {
		t.Error("Owns() = true for another id")
	}

	var nilUser *User
	if nilUser.Owns(id) {
		t.Error("Owns() = true on nil user")
	}
	if (&User{}).Owns(uuid.Nil) {
		t.Error("Owns() = true for nil ids")
	}
}

func TestNotificationPreference_Mode(t *testing.T) {
	tests := []struct {
		name     string
		email    bool
		summary  bool
		expected DispatchMode
	}{
		{"defaults", true, false, DispatchImmediate},
		{"summary only", false, true, DispatchSummary},
		{"conflicting row falls back to immediate", true, true, DispatchImmediate},
		{"neither", false, false, DispatchNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &NotificationPreference{EmailNotifications: tt.email, SummaryNotifications: tt.summary}
			if got := p.Mode(); got != tt.expected {
				t.Errorf("Mode() = %v, want %v", got, tt.expected)
			}
		})
	}

	var nilPref *NotificationPreference
	if nilPref.Mode() != DispatchNone {
		t.Error("Mode() on nil preference should be none")
	}
}

func TestDefaultNotificationPreference(t *testing.T) {
	id := uuid.New()
	p := DefaultNotificationPreference(id)
	if p.UserID != id || !p.EmailNotifications || p.SummaryNotifications {
		t.Errorf("DefaultNotificationPreference() = %+v", p)
	}
}
