package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"birthdays/internal/models"
	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// SubmissionHandler accepts anonymous submissions through a sharing token.
type SubmissionHandler struct {
	intake sharing.Submitter
}

// NewSubmissionHandler creates a new submission handler.
func NewSubmissionHandler(intake sharing.Submitter) *SubmissionHandler {
	return &SubmissionHandler{intake: intake}
}

// Submit stores a pending submission and returns a receipt without any
// internal identifiers.
func (h *SubmissionHandler) Submit(c fiber.Ctx) error {
	var in validation.SubmissionInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return publicError(c, sharing.Validation(validation.Errors{
			{Field: "body", Message: "must be a valid JSON object"},
		}))
	}

	sub, err := h.intake.Submit(c.Context(), c.Params("token"), c.IP(), in)
	if err != nil {
		return publicError(c, err)
	}
	return jsonCreated(c, models.NewSubmissionReceipt(sub))
}
