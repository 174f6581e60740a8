package analytics

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"
)

// Handler exposes the analytics summary endpoint.
type Handler struct {
	source Source
}

// NewHandler builds an analytics HTTP handler.
func NewHandler(source Source) *Handler {
	return &Handler{source: source}
}

// Summary rolls up income and expenses for a window, defaulting to the
// current calendar month.
func (h *Handler) Summary(c *fiber.Ctx) error {
	now := time.Now().UTC()
	from := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	if q := c.Query("from"); q != "" {
		t, err := time.Parse(time.RFC3339, q)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid from timestamp")
		}
		from = t
	}
	if q := c.Query("to"); q != "" {
		t, err := time.Parse(time.RFC3339, q)
		if err != nil {
			return fiber.NewError(http.StatusBadRequest, "invalid to timestamp")
		}
		to = t
	}

	summary, err := h.source.Summarize(c.UserContext(), c.Locals("user_id").(string), from, to)
	if err != nil {
		return err
	}
	return c.JSON(summary)
}
