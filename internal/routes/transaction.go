package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/transaction"
)

// RegisterTransactionRoutes wires ledger transaction endpoints. Creation is
// idempotency-protected when the cache is available.
func RegisterTransactionRoutes(r fiber.Router, h *transaction.Handler, idem fiber.Handler) {
	if idem != nil {
		r.Post("/transactions", idem, h.Record)
	} else {
		r.Post("/transactions", h.Record)
	}
	r.Get("/transactions", h.List)
	r.Put("/transactions/:txId", h.Update)
	r.Delete("/transactions/:txId", h.Delete)
}
