package handlers

import (
	"github.com/gofiber/fiber/v3"

	"birthdays/internal/config"
)

// page builds the template data every view expects.
func page(cfg *config.Config, title string, data fiber.Map) fiber.Map {
	out := fiber.Map{
		"Title":     title,
		"SiteTitle": cfg.SiteTitle,
	}
	for k, v := range data {
		out[k] = v
	}
	return out
}
