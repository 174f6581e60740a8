package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/advisor"
)

// RegisterAdvisorRoutes wires the chat advisor endpoint.
func RegisterAdvisorRoutes(r fiber.Router, h *advisor.Handler) {
	r.Post("/advisor/chat", h.Chat)
}
