package api

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"birthdays/internal/logger"
	"birthdays/internal/models"
)

const (
	statusUp       = "up"
	statusDown     = "down"
	statusDisabled = "disabled"
)

// Pinger is a dependency the health endpoint can probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingFunc adapts a function to Pinger.
type PingFunc func(ctx context.Context) error

func (f PingFunc) Ping(ctx context.Context) error { return f(ctx) }

// HealthHandler reports whether the database and Redis are reachable.
type HealthHandler struct {
	database Pinger
	redis    Pinger // nil when counters are in-process
	timeout  time.Duration
}

// NewHealthHandler creates a new health handler. redis may be nil.
func NewHealthHandler(database, redis Pinger) *HealthHandler {
	return &HealthHandler{database: database, redis: redis, timeout: 2 * time.Second}
}

// Check answers 200 when every configured dependency responds, else 503.
func (h *HealthHandler) Check(c fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), h.timeout)
	defer cancel()

	resp := models.HealthResponse{
		Database: h.probe(ctx, "database", h.database),
		Redis:    h.probe(ctx, "redis", h.redis),
	}

	if resp.Database == statusDown || resp.Redis == statusDown {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status": "error",
			"error":  "dependency unavailable",
			"data":   resp,
		})
	}
	return jsonSuccess(c, resp)
}

func (h *HealthHandler) probe(ctx context.Context, name string, p Pinger) string {
	if p == nil {
		return statusDisabled
	}
	if err := p.Ping(ctx); err != nil {
		logger.Warn("health probe failed", zap.String("dependency", name), zap.Error(err))
		return statusDown
	}
	return statusUp
}
