package api

import (
	"encoding/json"

	"github.com/gofiber/fiber/v3"

	"birthdays/internal/config"
	"birthdays/internal/models"
	"birthdays/internal/sharing"
)

// LinkHandler handles sharing link operations via JSON API.
type LinkHandler struct {
	links sharing.LinkManager
	cfg   *config.Config
}

// NewLinkHandler creates a new API link handler.
func NewLinkHandler(links sharing.LinkManager, cfg *config.Config) *LinkHandler {
	return &LinkHandler{links: links, cfg: cfg}
}

// linkResponse is a sharing link plus its public URL.
type linkResponse struct {
	models.SharingLink
	URL string `json:"url"`
}

func (h *LinkHandler) present(link *models.SharingLink) linkResponse {
	return linkResponse{SharingLink: *link, URL: h.cfg.ShareURL(link.Token)}
}

// List returns the owner's links, newest first.
func (h *LinkHandler) List(c fiber.Ctx) error {
	links, err := h.links.ListForOwner(c.Context(), ownerID(c))
	if err != nil {
		return sharingError(c, err)
	}

	out := make([]linkResponse, len(links))
	for i := range links {
		out[i] = h.present(&links[i])
	}
	return jsonSuccess(c, out)
}

// Create issues a new sharing link.
func (h *LinkHandler) Create(c fiber.Ctx) error {
	var body struct {
		Description     *string `json:"description"`
		ExpirationHours *int    `json:"expirationHours"`
	}
	if len(c.Body()) > 0 {
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return invalidBody(c)
		}
	}

	link, err := h.links.Create(c.Context(), ownerID(c), body.Description, body.ExpirationHours)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonCreated(c, h.present(link))
}

// Revoke deactivates a link. Revoking twice is not an error.
func (h *LinkHandler) Revoke(c fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return sharingError(c, err)
	}

	link, err := h.links.Revoke(c.Context(), ownerID(c), id)
	if err != nil {
		return sharingError(c, err)
	}
	return jsonSuccess(c, h.present(link))
}

// Options lists the expiration windows the owner may choose from.
func (h *LinkHandler) Options(c fiber.Ctx) error {
	return jsonSuccess(c, fiber.Map{
		"expiration_hours": h.links.AllowedExpirationHours(),
		"default":          h.cfg.Policy.DefaultExpirationHours,
	})
}
