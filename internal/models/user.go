package models

import (
	"time"

	"github.com/google/uuid"
)

// User represents a birthday owner authenticated via OIDC.
type User struct {
	ID        uuid.UUID `json:"id"`
	Sub       string    `json:"sub"` // OIDC subject identifier
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the best human-readable name for the user.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	if u.Email != "" {
		return u.Email
	}
	return u.Sub
}

// Owns reports whether the user is the owner identified by ownerID.
func (u *User) Owns(ownerID uuid.UUID) bool {
	return u != nil && u.ID != uuid.Nil && u.ID == ownerID
}
