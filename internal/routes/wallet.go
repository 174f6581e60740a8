package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/wallet"
)

// RegisterWalletRoutes wires wallet endpoints.
func RegisterWalletRoutes(r fiber.Router, h *wallet.Handler) {
	r.Post("/wallets", h.Create)
	r.Get("/wallets", h.List)
	r.Get("/wallets/:walletId", h.Get)
	r.Put("/wallets/:walletId", h.Update)
	r.Delete("/wallets/:walletId", h.Delete)
	r.Get("/wallets/:walletId/balance", h.Balance)
}
