package api

import (
	"strconv"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"birthdays/internal/logger"
	"birthdays/internal/middleware"
	"birthdays/internal/sharing"
	"birthdays/internal/validation"
)

// jsonSuccess returns a 200 response with data wrapped in the standard envelope.
func jsonSuccess(c fiber.Ctx, data any) error {
	return c.JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonCreated is jsonSuccess with a 201 status.
func jsonCreated(c fiber.Ctx, data any) error {
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"status": "ok",
		"data":   data,
	})
}

// jsonError returns an error response with the given HTTP status code.
func jsonError(c fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"status": "error",
		"error":  message,
	})
}

// StatusFor maps a sharing error kind to its HTTP status.
func StatusFor(kind sharing.Kind) int {
	switch kind {
	case sharing.KindNotFound:
		return fiber.StatusNotFound
	case sharing.KindForbidden:
		return fiber.StatusForbidden
	case sharing.KindExpiredOrInvalid:
		return fiber.StatusGone
	case sharing.KindRateLimited:
		return fiber.StatusTooManyRequests
	case sharing.KindValidation:
		return fiber.StatusUnprocessableEntity
	case sharing.KindInvalidState:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// sharingError writes err in the error envelope with its kind. Internal
// failures are logged and reported without detail.
func sharingError(c fiber.Ctx, err error) error {
	return writeSharingError(c, sharing.AsError(err), sharing.KindOf(err))
}

// publicError is sharingError for anonymous callers, who only ever see
// EXPIRED_OR_INVALID, RATE_LIMITED, VALIDATION_ERROR or INTERNAL.
func publicError(c fiber.Ctx, err error) error {
	return writeSharingError(c, sharing.AsError(err), sharing.PublicKind(err))
}

func writeSharingError(c fiber.Ctx, e *sharing.Error, kind sharing.Kind) error {
	body := fiber.Map{
		"status": "error",
		"kind":   kind,
	}

	switch kind {
	case sharing.KindInternal:
		logger.Error("request failed",
			zap.Error(e),
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
		)
		body["error"] = sharing.ErrInternal.Message
	case sharing.KindRateLimited:
		body["error"] = e.Message
		if secs := e.RetryAfterSeconds(); secs > 0 {
			c.Set(fiber.HeaderRetryAfter, strconv.Itoa(secs))
			body["retry_after"] = secs
		}
	case sharing.KindValidation:
		body["error"] = e.Message
		body["fields"] = e.Fields
	default:
		body["error"] = e.Message
	}

	return c.Status(StatusFor(kind)).JSON(body)
}

// ownerID returns the signed-in owner's id, or uuid.Nil.
func ownerID(c fiber.Ctx) uuid.UUID {
	if user := middleware.CurrentUser(c); user != nil {
		return user.ID
	}
	return uuid.Nil
}

// paramID parses a uuid path parameter. A malformed id cannot name an
// existing record, so it is reported as NOT_FOUND.
func paramID(c fiber.Ctx, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Params(name))
	if err != nil {
		return uuid.Nil, sharing.ErrNotFound
	}
	return id, nil
}

// invalidBody reports an undecodable request body as a validation failure.
func invalidBody(c fiber.Ctx) error {
	return sharingError(c, sharing.Validation(validation.Errors{
		{Field: "body", Message: "must be a valid JSON object"},
	}))
}
