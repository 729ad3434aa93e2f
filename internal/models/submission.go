package models

import (
	"time"

	"github.com/google/uuid"
)

// Submission status constants
const (
	StatusPending  = "pending"
	StatusImported = "imported"
	StatusRejected = "rejected"
)

// Submission is a birthday sent anonymously through a sharing link and
// awaiting the owner's review.
type Submission struct {
	ID             uuid.UUID  `json:"id"`
	LinkID         uuid.UUID  `json:"link_id"`
	Name           string     `json:"name"`
	Date           Date       `json:"date"`
	Category       *string    `json:"category"`
	Notes          *string    `json:"notes"`
	SubmitterName  *string    `json:"submitter_name"`
	SubmitterEmail *string    `json:"submitter_email"`
	Relationship   *string    `json:"relationship"`
	Status         string     `json:"status"` // pending, imported, rejected
	SummaryPending bool       `json:"-"`
	ReviewedAt     *time.Time `json:"reviewed_at"`
	CreatedAt      time.Time  `json:"created_at"`

	// Populated via JOIN on sharing_links
	OwnerID uuid.UUID `json:"-"`
}

// IsPending returns true if the submission is still awaiting review.
func (s *Submission) IsPending() bool {
	return s.Status == StatusPending
}

// IsTerminal returns true once the submission has been imported or rejected.
func (s *Submission) IsTerminal() bool {
	return s.Status == StatusImported || s.Status == StatusRejected
}

// ToBirthday builds the birthday an import of this submission materializes.
func (s *Submission) ToBirthday() *Birthday {
	id := s.ID
	return &Birthday{
		OwnerID:            s.OwnerID,
		Name:               s.Name,
		Date:               s.Date,
		Category:           s.Category,
		Notes:              s.Notes,
		SourceSubmissionID: &id,
	}
}
