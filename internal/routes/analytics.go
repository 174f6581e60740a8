package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/analytics"
)

// RegisterAnalyticsRoutes wires the analytics summary endpoint.
func RegisterAnalyticsRoutes(r fiber.Router, h *analytics.Handler) {
	r.Get("/analytics/summary", h.Summary)
}
