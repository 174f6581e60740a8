package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/transfer"
)

// RegisterTransferRoutes wires the wallet-to-wallet transfer endpoint.
func RegisterTransferRoutes(r fiber.Router, h *transfer.Handler, idem fiber.Handler) {
	if idem != nil {
		r.Post("/transfers", idem, h.Create)
	} else {
		r.Post("/transfers", h.Create)
	}
}
