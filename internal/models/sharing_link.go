package models

import (
	"time"

	"github.com/google/uuid"
)

// SharingLink is an owner-issued token that lets anonymous visitors submit
// birthdays until it expires or is revoked.
type SharingLink struct {
	ID              uuid.UUID  `json:"id"`
	OwnerID         uuid.UUID  `json:"owner_id"`
	Token           string     `json:"token"`
	Description     *string    `json:"description"`
	CreatedAt       time.Time  `json:"created_at"`
	ExpiresAt       time.Time  `json:"expires_at"`
	IsActive        bool       `json:"is_active"`
	RevokedAt       *time.Time `json:"revoked_at"`
	SubmissionCount int        `json:"submission_count"`
}

// AcceptsSubmissions reports whether the link is active and unexpired at now.
func (l *SharingLink) AcceptsSubmissions(now time.Time) bool {
	return l.IsActive && now.Before(l.ExpiresAt)
}

// IsExpired reports whether the link's expiration has passed at now.
func (l *SharingLink) IsExpired(now time.Time) bool {
	return !now.Before(l.ExpiresAt)
}
