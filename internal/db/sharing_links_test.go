package db

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"birthdays/internal/models"
)

func TestCreateSharingLink(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestOwner(t, db, "link-owner")
	link := createTestLink(t, db, owner, "token-create", 24*time.Hour)

	if link.ID == uuid.Nil {
		t.Error("CreateSharingLink() did not set ID")
	}
	if !link.IsActive {
		t.Error("CreateSharingLink() link should start active")
	}
	if link.SubmissionCount != 0 {
		t.Errorf("SubmissionCount = %d, want 0", link.SubmissionCount)
	}

	fetched, err := db.GetSharingLinkByToken(context.Background(), "token-create")
	if err != nil {
		t.Fatalf("GetSharingLinkByToken() error = %v", err)
	}
	if got := fetched.ExpiresAt.Sub(fetched.CreatedAt); got != 24*time.Hour {
		t.Errorf("ExpiresAt - CreatedAt = %v, want 24h", got)
	}
}

func TestCreateSharingLink_DuplicateToken(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestOwner(t, db, "dup-owner")
	createTestLink(t, db, owner, "same-token", time.Hour)

	now := time.Now()
	dup := &models.SharingLink{OwnerID: owner.ID, Token: "same-token", CreatedAt: now, ExpiresAt: now.Add(time.Hour)}
	if err := db.CreateSharingLink(context.Background(), dup); !errors.Is(err, ErrDuplicateToken) {
		t.Errorf("CreateSharingLink() error = %v, want ErrDuplicateToken", err)
	}
}

func TestDeactivateSharingLink(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestOwner(t, db, "revoke-owner")
	link := createTestLink(t, db, owner, "token-revoke", time.Hour)

	revoked, err := db.DeactivateSharingLink(ctx, link.ID)
	if err != nil {
		t.Fatalf("DeactivateSharingLink() error = %v", err)
	}
	if revoked.IsActive || revoked.RevokedAt == nil {
		t.Errorf("DeactivateSharingLink() = %+v, want inactive with revoked_at", revoked)
	}

	again, err := db.DeactivateSharingLink(ctx, link.ID)
	if err != nil {
		t.Fatalf("DeactivateSharingLink() second error = %v", err)
	}
	if !again.RevokedAt.Equal(*revoked.RevokedAt) {
		t.Errorf("second deactivate moved revoked_at from %v to %v", revoked.RevokedAt, again.RevokedAt)
	}

	if _, err := db.DeactivateSharingLink(ctx, uuid.New()); !errors.Is(err, ErrSharingLinkNotFound) {
		t.Errorf("DeactivateSharingLink(unknown) error = %v, want ErrSharingLinkNotFound", err)
	}
}

func TestListSharingLinksByOwner(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	owner := createTestOwner(t, db, "list-owner")
	other := createTestOwner(t, db, "other-owner")
	createTestLink(t, db, owner, "token-a", time.Hour)
	createTestLink(t, db, owner, "token-b", time.Hour)
	createTestLink(t, db, other, "token-c", time.Hour)

	links, err := db.ListSharingLinksByOwner(context.Background(), owner.ID)
	if err != nil {
		t.Fatalf("ListSharingLinksByOwner() error = %v", err)
	}
	if len(links) != 2 {
		t.Fatalf("ListSharingLinksByOwner() returned %d links, want 2", len(links))
	}
	for _, l := range links {
		if l.OwnerID != owner.ID {
			t.Errorf("ListSharingLinksByOwner() returned link of %v", l.OwnerID)
		}
	}
}

func TestDeleteStaleSharingLinks(t *testing.T) {
	db, cleanup := setupTestDB(t)
	defer cleanup()

	ctx := context.Background()
	owner := createTestOwner(t, db, "cleanup-owner")

	past := time.Now().Add(-72 * time.Hour)
	expired := &models.SharingLink{OwnerID: owner.ID, Token: "token-expired", CreatedAt: past, ExpiresAt: past.Add(time.Hour)}
	if err := db.CreateSharingLink(ctx, expired); err != nil {
		t.Fatalf("CreateSharingLink() error = %v", err)
	}
	live := createTestLink(t, db, owner, "token-live", time.Hour)

	deleted, err := db.DeleteStaleSharingLinks(ctx, time.Now().Add(-24*time.Hour))
	if err != nil {
		t.Fatalf("DeleteStaleSharingLinks() error = %v", err)
	}
	if deleted != 1 {
		t.Errorf("DeleteStaleSharingLinks() = %d, want 1", deleted)
	}

	if _, err := db.GetSharingLinkByID(ctx, expired.ID); !errors.Is(err, ErrSharingLinkNotFound) {
		t.Errorf("expired link still present: %v", err)
	}
	if _, err := db.GetSharingLinkByID(ctx, live.ID); err != nil {
		t.Errorf("live link was removed: %v", err)
	}
}
