package transaction

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/ledger"
	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes transaction CRUD endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a transaction HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type recordRequest struct {
	WalletID    string    `json:"wallet_id" validate:"required,uuid4"`
	CategoryID  *string   `json:"category_id" validate:"omitempty,uuid4"`
	Name        string    `json:"name" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Type        string    `json:"type" validate:"required,oneof=income expense"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

func (h *Handler) Record(c *fiber.Ctx) error {
	var req recordRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, balance, err := h.svc.Record(c.UserContext(), ledger.RecordInput{
		UserID:      c.Locals("user_id").(string),
		WalletID:    req.WalletID,
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"transaction": tx, "wallet_balance": balance})
}

type updateRequest struct {
	CategoryID  *string   `json:"category_id" validate:"omitempty,uuid4"`
	Name        string    `json:"name" validate:"required"`
	Amount      int64     `json:"amount" validate:"required,gt=0"`
	Type        string    `json:"type" validate:"required,oneof=income expense"`
	Date        time.Time `json:"date"`
	Description string    `json:"description"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	tx, err := h.svc.Update(c.UserContext(), ledger.UpdateInput{
		UserID:      c.Locals("user_id").(string),
		TxID:        c.Params("txId"),
		CategoryID:  req.CategoryID,
		Name:        req.Name,
		Amount:      req.Amount,
		Type:        req.Type,
		Date:        req.Date,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transaction": tx})
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Locals("user_id").(string), c.Params("txId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *Handler) List(c *fiber.Ctx) error {
	filter := ledger.ListFilter{
		WalletID:   c.Query("wallet_id"),
		CategoryID: c.Query("category_id"),
		Type:       c.Query("type"),
		Limit:      c.QueryInt("limit"),
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse(time.RFC3339, from)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid from timestamp")
		}
		filter.From = t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse(time.RFC3339, to)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid to timestamp")
		}
		filter.To = t
	}

	txs, err := h.svc.List(c.UserContext(), c.Locals("user_id").(string), filter)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transactions": txs})
}
