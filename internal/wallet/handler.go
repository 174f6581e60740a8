package wallet

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes wallet CRUD and balance endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a wallet HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name           string `json:"name" validate:"required"`
	Type           string `json:"type" validate:"required,oneof=bank ewallet crypto stocks"`
	Purpose        string `json:"purpose"`
	InitialBalance int64  `json:"initial_balance" validate:"gte=0"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	w, err := h.svc.Create(c.UserContext(), CreateInput{
		OwnerID:        c.Locals("user_id").(string),
		Name:           req.Name,
		Type:           req.Type,
		Purpose:        req.Purpose,
		InitialBalance: req.InitialBalance,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(w)
}

func (h *Handler) List(c *fiber.Ctx) error {
	wallets, err := h.svc.List(c.UserContext(), c.Locals("user_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"wallets": wallets})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	w, err := h.svc.Get(c.UserContext(), c.Locals("user_id").(string), c.Params("walletId"))
	if err != nil {
		return err
	}
	return c.JSON(w)
}

type updateRequest struct {
	Name    string `json:"name" validate:"required"`
	Purpose string `json:"purpose"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	w, err := h.svc.Update(c.UserContext(), c.Locals("user_id").(string), c.Params("walletId"), req.Name, req.Purpose)
	if err != nil {
		return err
	}
	return c.JSON(w)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Locals("user_id").(string), c.Params("walletId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Balance reports the spendable balance together with the total its active
// saving goals currently hold.
func (h *Handler) Balance(c *fiber.Ctx) error {
	avail, err := h.svc.Balance(c.UserContext(), c.Locals("user_id").(string), c.Params("walletId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"wallet_id":         avail.WalletID,
		"balance":           avail.Balance,
		"allocated":         avail.Allocated,
		"available_balance": avail.Available,
		"as_of":             avail.AsOf,
	})
}
