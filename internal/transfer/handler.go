package transfer

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes the transfer endpoint.
type Handler struct {
	svc *Service
}

// NewHandler builds a transfer HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type transferRequest struct {
	SourceWalletID string    `json:"source_wallet_id" validate:"required"`
	DestWalletID   string    `json:"dest_wallet_id" validate:"required"`
	Amount         int64     `json:"amount" validate:"required,gt=0"`
	Date           time.Time `json:"date"`
	Name           string    `json:"name"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req transferRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	res, err := h.svc.Transfer(c.UserContext(), Input{
		UserID:   c.Locals("user_id").(string),
		SourceID: req.SourceWalletID,
		DestID:   req.DestWalletID,
		Amount:   req.Amount,
		Date:     req.Date,
		Name:     req.Name,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"source_balance": res.SourceBalance,
		"dest_balance":   res.DestBalance,
	})
}
