package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// OwnerHandler serves the owner's birthdays and notification preferences.
type OwnerHandler struct {
	owner sharing.OwnerManager
}

// NewOwnerHandler creates a new owner handler.
func NewOwnerHandler(owner sharing.OwnerManager) *OwnerHandler {
	return &OwnerHandler{owner: owner}
}

// ListBirthdays returns the owner's birthdays.
func (h *OwnerHandler) ListBirthdays(c fiber.Ctx) error {
	birthdays, err := h.owner.ListBirthdays(c.Context(), ownerID(c))
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, birthdays)
}

// CreateBirthday adds a birthday entered by the owner.
func (h *OwnerHandler) CreateBirthday(c fiber.Ctx) error {
	var in validation.BirthdayInput
	if err := json.Unmarshal(c.Body(), &in); err != nil {
		return invalidBody(c)
	}

	b, err := h.owner.CreateBirthday(c.Context(), ownerID(c), in)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonCreated(c, b)
}

// DeleteBirthday removes one of the owner's birthdays.
func (h *OwnerHandler) DeleteBirthday(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return sharingError(c, err)
	}

	if _, err := h.owner.DeleteBirthday(c.Context(), ownerID(c), id); err != nil {
		return sharingError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Preferences returns the owner's notification settings.
func (h *OwnerHandler) Preferences(c fiber.Ctx) error {
	pref, err := h.owner.Preferences(c.Context(), ownerID(c))
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, pref)
}

// UpdatePreferences changes whichever flags are present in the body.
func (h *OwnerHandler) UpdatePreferences(c fiber.Ctx) error {
	var body struct {
		EmailNotifications   *bool `json:"emailNotifications"`
		SummaryNotifications *bool `json:"summaryNotifications"`
	}
	if err := json.Unmarshal(c.Body(), &body); err != nil {
		return invalidBody(c)
	}

	pref, err := h.owner.UpdatePreferences(c.Context(), ownerID(c), body.EmailNotifications, body.SummaryNotifications)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, pref)
}
