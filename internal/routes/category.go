package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/category"
)

// RegisterCategoryRoutes wires category endpoints.
func RegisterCategoryRoutes(r fiber.Router, h *category.Handler) {
	r.Post("/categories", h.Create)
	r.Get("/categories", h.List)
	r.Put("/categories/:categoryId", h.Update)
	r.Delete("/categories/:categoryId", h.Delete)
}
