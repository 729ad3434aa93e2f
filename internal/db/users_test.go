package db

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"birthdays/internal/models"
)

func TestUpsertUser_Create(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{
		Sub:   "test-sub-123",
		Email: "test@example.com",
		Name:  "Test User",
	}

	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() error = %v", err)
	}

	if user.ID == uuid.Nil {
		t.Error("UpsertUser() did not set ID")
	}
	if user.CreatedAt.IsZero() {
		t.Error("UpsertUser() did not set CreatedAt")
	}
}

func TestUpsertUser_Update(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	user := &models.User{
		Sub:   "update-sub-123",
		Email: "original@example.com",
		Name:  "Original Name",
	}
	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() create error = %v", err)
	}
	originalID := user.ID

	user.Email = "updated@example.com"
	user.Name = "Updated Name"
	if err := db.UpsertUser(ctx, user); err != nil {
		t.Fatalf("UpsertUser() update error = %v", err)
	}

	if user.ID != originalID {
		t.Errorf("UpsertUser() changed ID from %v to %v", originalID, user.ID)
	}

	fetched, err := db.GetUserBySub(ctx, "update-sub-123")
	if err != nil {
		t.Fatalf("GetUserBySub() error = %v", err)
	}
	if fetched.Email != "updated@example.com" || fetched.Name != "Updated Name" {
		t.Errorf("GetUserBySub() = %+v, want updated fields", fetched)
	}
}

func TestGetUser_NotFound(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()

	if _, err := db.GetUserBySub(ctx, "nonexistent"); err != ErrUserNotFound {
		t.Errorf("GetUserBySub() error = %v, want ErrUserNotFound", err)
	}
	if _, err := db.GetUserByID(ctx, uuid.New()); err != ErrUserNotFound {
		t.Errorf("GetUserByID() error = %v, want ErrUserNotFound", err)
	}
}

func TestNotificationPreference_DefaultsAndUpsert(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestOwner(t, db, "pref-owner")

	pref, err := db.GetNotificationPreference(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetNotificationPreference() error = %v", err)
	}
	if !pref.EmailNotifications || pref.SummaryNotifications {
		t.Errorf("GetNotificationPreference() = %+v, want defaults", pref)
	}

	pref.EmailNotifications = false
	pref.SummaryNotifications = true
	if err := db.UpsertNotificationPreference(ctx, pref); err != nil {
		t.Fatalf("UpsertNotificationPreference() error = %v", err)
	}

	got, err := db.GetNotificationPreference(ctx, owner.ID)
	if err != nil {
		t.Fatalf("GetNotificationPreference() error = %v", err)
	}
	if got.EmailNotifications || !got.SummaryNotifications {
		t.Errorf("GetNotificationPreference() = %+v, want saved values", got)
	}
	if got.Mode() != models.DispatchSummary {
		t.Errorf("Mode() = %v, want summary", got.Mode())
	}

	got.EmailNotifications = true
	if err := db.UpsertNotificationPreference(ctx, got); err == nil {
		t.Error("UpsertNotificationPreference() with both flags set succeeded, want check violation")
	}
}
