package api

import (
	"context"
	"encoding/json"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// ReviewHandler exposes the owner's review queue.
type ReviewHandler struct {
	review sharing.Reviewer
}

// NewReviewHandler creates a new review handler.
func NewReviewHandler(review sharing.Reviewer) *ReviewHandler {
	return &ReviewHandler{review: review}
}

// Pending lists pending submissions with duplicate candidates.
func (h *ReviewHandler) Pending(c fiber.Ctx) error {
	items, err := h.review.ListPending(c.Context(), ownerID(c))
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, items)
}

// Import turns one pending submission into a birthday.
func (h *ReviewHandler) Import(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return sharingError(c, err)
	}

	b, err := h.review.ImportOne(c.Context(), ownerID(c), id)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, b)
}

// Reject discards one pending submission.
func (h *ReviewHandler) Reject(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return sharingError(c, err)
	}

	sub, err := h.review.RejectOne(c.Context(), ownerID(c), id)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, sub)
}

// ImportBulk imports several submissions, reporting each id's outcome.
func (h *ReviewHandler) ImportBulk(c fiber.Ctx) error {
	return h.bulk(c, h.review.ImportBulk)
}

// RejectBulk rejects several submissions, reporting each id's outcome.
func (h *ReviewHandler) RejectBulk(c fiber.Ctx) error {
	return h.bulk(c, h.review.RejectBulk)
}

type bulkFunc func(ctx context.Context, ownerID uuid.UUID, ids []uuid.UUID) (sharing.BulkResult, error)

func (h *ReviewHandler) bulk(c fiber.Ctx, run bulkFunc) error {
	ids, err := parseIDs(c.Body())
	if err != nil {
		return sharingError(c, err)
	}

	result, err := run(c.Context(), ownerID(c), ids)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, fiber.Map{
		"succeeded": result.Succeeded(),
		"results":   result,
	})
}

// parseIDs decodes {"ids": [...]}, rejecting malformed ids as a whole.
func parseIDs(body []byte) ([]uuid.UUID, error) {
	var req struct {
		IDs []string `json:"ids"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, sharing.Validation(validation.Errors{
			{Field: "body", Message: "must be a valid JSON object"},
		})
	}

	var errs validation.Errors
	ids := make([]uuid.UUID, 0, len(req.IDs))
	for _, raw := range req.IDs {
		id, err := uuid.Parse(raw)
		if err != nil {
			errs = append(errs, validation.FieldError{Field: "ids", Message: "invalid id " + raw})
			continue
		}
		ids = append(ids, id)
	}
	if len(errs) > 0 {
		return nil, sharing.Validation(errs)
	}
	return ids, nil
}
