package handlers

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"birthdays/internal/config"
	"birthdays/internal/models"
	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// ShareHandler renders the public submission form behind a sharing link.
type ShareHandler struct {
	links  sharing.LinkManager
	intake sharing.Submitter
	cfg    *config.Config
}

// NewShareHandler creates a new share form handler.
func NewShareHandler(links sharing.LinkManager, intake sharing.Submitter, cfg *config.Config) *ShareHandler {
	return &ShareHandler{links: links, intake: intake, cfg: cfg}
}

// Form shows the submission form while the link accepts submissions.
func (h *ShareHandler) Form(c fiber.Ctx) error {
	token := c.Params("token")
	link, err := h.links.ResolveActive(c.Context(), token)
	if err != nil {
		return h.renderError(c, token, err)
	}

	return c.Render("share", page(h.cfg, "Share a birthday", fiber.Map{
		"Token":       token,
		"Description": link.Description,
		"Form":        validation.SubmissionInput{},
		"Errors":      map[string]string{},
	}))
}

// Submit handles the form post.
func (h *ShareHandler) Submit(c fiber.Ctx) error {
	token := c.Params("token")
	in := validation.SubmissionInput{
		Name:           c.FormValue("name"),
		Date:           c.FormValue("date"),
		Category:       c.FormValue("category"),
		Notes:          c.FormValue("notes"),
		SubmitterName:  c.FormValue("submitterName"),
		SubmitterEmail: c.FormValue("submitterEmail"),
		Relationship:   c.FormValue("relationship"),
	}

	sub, err := h.intake.Submit(c.Context(), token, c.IP(), in)
	if err != nil {
		if sharing.PublicKind(err) == sharing.KindValidation {
			data := fiber.Map{
				"Token":  token,
				"Form":   in,
				"Errors": fieldMessages(sharing.AsError(err).Fields),
			}
			if link := h.lookup(c, token); link != nil {
				data["Description"] = link.Description
			}
			return c.Status(fiber.StatusUnprocessableEntity).Render("share", page(h.cfg, "Share a birthday", data))
		}
		return h.renderError(c, token, err)
	}

	return c.Status(fiber.StatusCreated).Render("submitted", page(h.cfg, "Thank you", fiber.Map{
		"Receipt": models.NewSubmissionReceipt(sub),
	}))
}

func (h *ShareHandler) renderError(c fiber.Ctx, token string, err error) error {
	kind := sharing.PublicKind(err)

	var message string
	status := fiber.StatusInternalServerError
	switch kind {
	case sharing.KindExpiredOrInvalid:
		status = fiber.StatusGone
		message = deadLinkMessage(h.lookup(c, token))
	case sharing.KindRateLimited:
		status = fiber.StatusTooManyRequests
		message = "Too many submissions through this link. Please try again later."
		if secs := sharing.AsError(err).RetryAfterSeconds(); secs > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
		}
	default:
		message = "Something went wrong. Please try again."
	}

	return c.Status(status).Render("error", page(h.cfg, "Unavailable", fiber.Map{
		"Message": message,
	}))
}

// lookup finds the link in any state, for display only. Failures show
// nothing extra.
func (h *ShareHandler) lookup(c fiber.Ctx, token string) *models.SharingLink {
	link, err := h.links.Lookup(c.Context(), token)
	if err != nil {
		return nil
	}
	return link
}

func deadLinkMessage(link *models.SharingLink) string {
	switch {
	case link == nil:
		return "This sharing link is not valid. Check the address or ask the owner for a new one."
	case !link.IsActive:
		return "This sharing link was revoked by its owner."
	default:
		return "This sharing link has expired. Ask the owner for a new one."
	}
}

// fieldMessages keeps the first message per field for inline display.
func fieldMessages(errs validation.Errors) map[string]string {
	out := make(map[string]string, len(errs))
	for _, e := range errs {
		if _, ok := out[e.Field]; !ok {
			out[e.Field] = e.Message
		}
	}
	return out
}
