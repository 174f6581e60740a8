package advisor

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/validation"
)

// Handler exposes the advisor chat endpoint.
type Handler struct {
	svc *Service
}

// NewHandler builds an advisor HTTP handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

type chatRequest struct {
	Question string `json:"question" validate:"required"`
}

func (h *Handler) Chat(c *fiber.Ctx) error {
	var req chatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}
	if err := validation.Struct(req); err != nil {
		return fiber.NewError(http.StatusBadRequest, err.Error())
	}

	answer, err := h.svc.Chat(c.UserContext(), c.Locals("user_id").(string), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"answer": answer})
}
