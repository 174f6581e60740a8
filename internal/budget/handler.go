package budget

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes budget CRUD endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a budget HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type createRequest struct {
	CategoryID  string    `json:"category_id" validate:"required,uuid4"`
	LimitAmount int64     `json:"limit_amount" validate:"required,gt=0"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	IsPinned    bool      `json:"is_pinned"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req createRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	b, err := h.svc.Create(c.UserContext(), CreateInput{
		OwnerID:     c.Locals("user_id").(string),
		CategoryID:  req.CategoryID,
		LimitAmount: req.LimitAmount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPinned:    req.IsPinned,
	})
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(b)
}

func (h *Handler) List(c *fiber.Ctx) error {
	budgets, err := h.svc.List(c.UserContext(), c.Locals("user_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"budgets": budgets})
}

func (h *Handler) Get(c *fiber.Ctx) error {
	b, err := h.svc.Get(c.UserContext(), c.Locals("user_id").(string), c.Params("budgetId"))
	if err != nil {
		return err
	}
	return c.JSON(b)
}

type updateRequest struct {
	LimitAmount int64     `json:"limit_amount" validate:"required,gt=0"`
	StartDate   time.Time `json:"start_date" validate:"required"`
	EndDate     time.Time `json:"end_date" validate:"required"`
	IsPinned    bool      `json:"is_pinned"`
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req updateRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	b, err := h.svc.Update(c.UserContext(), Budget{
		ID:          c.Params("budgetId"),
		OwnerID:     c.Locals("user_id").(string),
		LimitAmount: req.LimitAmount,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		IsPinned:    req.IsPinned,
	})
	if err != nil {
		return err
	}
	return c.JSON(b)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Locals("user_id").(string), c.Params("budgetId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
