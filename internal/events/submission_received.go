// Package events publishes sharing-link events to Kafka.
package events

import (
	"time"

	"birthdays/internal/models"
)

// SubmissionReceived is emitted when an owner opted into immediate
// notifications and a new pending submission arrives.
type SubmissionReceived struct {
	EventID    string            `json:"eventId"`
	OwnerID    string            `json:"ownerId"`
	LinkID     string            `json:"linkId"`
	Submission models.Submission `json:"submission"`
	OccurredAt string            `json:"occurredAt"`
}

// NewSubmissionReceived builds the event for sub arriving through link.
func NewSubmissionReceived(eventID string, link *models.SharingLink, sub *models.Submission, at time.Time) SubmissionReceived {
	return SubmissionReceived{
		EventID:    eventID,
		OwnerID:    link.OwnerID.String(),
		LinkID:     link.ID.String(),
		Submission: *sub,
		OccurredAt: at.UTC().Format(time.RFC3339Nano),
	}
}
