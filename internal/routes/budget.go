package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/budget"
)

// RegisterBudgetRoutes wires budget endpoints.
func RegisterBudgetRoutes(r fiber.Router, h *budget.Handler) {
	r.Post("/budgets", h.Create)
	r.Get("/budgets", h.List)
	r.Get("/budgets/:budgetId", h.Get)
	r.Put("/budgets/:budgetId", h.Update)
	r.Delete("/budgets/:budgetId", h.Delete)
}
