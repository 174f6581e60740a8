package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/goal"
)

// RegisterGoalRoutes wires saving goal endpoints. Contributions and status
// changes move money, so both take the idempotency guard.
func RegisterGoalRoutes(r fiber.Router, h *goal.Handler, idem fiber.Handler) {
	r.Post("/goals", h.Create)
	r.Get("/goals", h.List)
	r.Get("/goals/:goalId", h.Get)
	r.Put("/goals/:goalId", h.Update)
	r.Delete("/goals/:goalId", h.Delete)
	r.Get("/goals/:goalId/transactions", h.History)
	if idem != nil {
		r.Post("/goals/:goalId/contributions", idem, h.Contribute)
		r.Put("/goals/:goalId/status", idem, h.SetStatus)
	} else {
		r.Post("/goals/:goalId/contributions", h.Contribute)
		r.Put("/goals/:goalId/status", h.SetStatus)
	}
	r.Delete("/goals/transactions/:txId", h.Revert)
}
