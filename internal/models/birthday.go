package models

import (
	"time"

	"github.com/google/uuid"
)

// Birthday is an owner's permanent birthday record.
type Birthday struct {
	ID                 uuid.UUID  `json:"id"`
	OwnerID            uuid.UUID  `json:"owner_id"`
	Name               string     `json:"name"`
	Date               Date       `json:"date"`
	Category           *string    `json:"category"`
	Notes              *string    `json:"notes"`
	SourceSubmissionID *uuid.UUID `json:"source_submission_id"` // set when imported from a submission
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
}
