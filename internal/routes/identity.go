package routes

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/moneta-app/moneta/internal/identity"
	"github.com/moneta-app/moneta/internal/validation"
)

// RegisterIdentityRoutes wires user registration.
func RegisterIdentityRoutes(r fiber.Router, ids *identity.Service, logger *slog.Logger) {
	r.Post("/identity/register", func(c *fiber.Ctx) error {
		var req struct {
			Email    string `json:"email" validate:"required,email"`
			Password string `json:"password" validate:"required,min=8"`
			Name     string `json:"name"`
		}
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		if err := validation.Struct(req); err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		user, err := ids.Register(c.UserContext(), identity.Credentials{
			Email:    req.Email,
			Password: req.Password,
			Name:     req.Name,
		})
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, err.Error())
		}
		logger.Info("identity.register completed",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
		)
		return c.Status(http.StatusCreated).JSON(fiber.Map{
			"user_id": user.ID,
			"email":   user.Email,
			"name":    user.Name,
		})
	})
}
