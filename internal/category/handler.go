package category

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes category CRUD endpoints.
type Handler struct {
	svc *Service
}

// NewHandler builds a category HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type nameRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) Create(c *fiber.Ctx) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	cat, err := h.svc.Create(c.UserContext(), c.Locals("user_id").(string), req.Name)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(cat)
}

func (h *Handler) List(c *fiber.Ctx) error {
	cats, err := h.svc.List(c.UserContext(), c.Locals("user_id").(string))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": cats})
}

func (h *Handler) Update(c *fiber.Ctx) error {
	var req nameRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	cat, err := h.svc.Rename(c.UserContext(), c.Locals("user_id").(string), c.Params("categoryId"), req.Name)
	if err != nil {
		return err
	}
	return c.JSON(cat)
}

func (h *Handler) Delete(c *fiber.Ctx) error {
	if err := h.svc.Delete(c.UserContext(), c.Locals("user_id").(string), c.Params("categoryId")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}
