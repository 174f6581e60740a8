package goal

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes goal CRUD and contribution endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a goal HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	Name         string `json:"name" validate:"required"`
	TargetAmount int64  `json:"target_amount" validate:"required,gt=0"`
	IsPinned     bool   `json:"is_pinned"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	g, err := h.svc.Create(c.UserContext(), CreateInput{
		OwnerID:      c.Locals("user_id").(string),
		Name:         req.Name,
		TargetAmount: req.TargetAmount,
		IsPinned:     req.IsPinned,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(g)
}

func (h *Handler) List(c *fiber.Ctx) error {
	goals, err := h.svc.List(c.UserContext(), c.Locals("user_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"goals": goals})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	g, err := h.svc.Get(c.UserContext(), c.Locals("user_id").(string), c.Params("goalId"))
	if err != nil {
		return err
	}
	return c.JSON(g)
}

type updateRequest struct {
	Name         string `json:"name" validate:"required"`
	TargetAmount int64  `json:"target_amount" validate:"required,gt=0"`
	IsPinned     bool   `json:"is_pinned"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	g, err := h.svc.Update(c.UserContext(), c.Locals("user_id").(string), c.Params("goalId"),
		req.Name, req.TargetAmount, req.IsPinned)
	if err != nil {
		return err
	}
	return c.JSON(g)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Locals("user_id").(string), c.Params("goalId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

type contributeRequest struct {
	WalletID string    `json:"wallet_id" validate:"required"`
	Amount   int64     `json:"amount" validate:"required"`
	Date     time.Time `json:"date"`
}

// Contribute posts a contribution; a negative amount withdraws back to the
// wallet.
func (h *Handler) Contribute(c *fiber.Ctx) error {
	var req contributeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.Contribute(c.UserContext(), c.Locals("user_id").(string),
		c.Params("goalId"), req.WalletID, req.Amount, req.Date)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"audit_tx_id":    res.AuditTxID,
		"wallet_balance": res.WalletBalance,
		"goal_amount":    res.GoalAmount,
	})
}

// Revert undoes a contribution identified by its audit transaction id.
func (h *Handler) Revert(c *fiber.Ctx) error {
	res, err := h.svc.Revert(c.UserContext(), c.Locals("user_id").(string), c.Params("txId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"wallet_balance": res.WalletBalance,
		"goal_amount":    res.GoalAmount,
	})
}

type statusRequest struct {
	Status string `json:"status" validate:"required,oneof=active completed"`
}

// SetStatus toggles active/completed.
func (h *Handler) SetStatus(c *fiber.Ctx) error {
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	res, err := h.svc.SetStatus(c.UserContext(), c.Locals("user_id").(string), c.Params("goalId"), req.Status)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"status":         res.Status,
		"wallet_balance": res.WalletBalance,
	})
}

// History lists the goal's audit trail.
func (h *Handler) History(c *fiber.Ctx) error {
	txs, err := h.svc.History(c.UserContext(), c.Locals("user_id").(string), c.Params("goalId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": txs})
}
