package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"

	applog "userapi/internal/log"
)

type IndexHandler struct{}

// GET /
func (h *IndexHandler) Home(c *fiber.Ctx) error {
	return render(c, "index", fiber.Map{"Message": "Api is working!"})
}

type HealthHandler struct {
	DB      *sqlx.DB
	Timeout time.Duration
}

// GET /healthz
func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if h.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, h.Timeout)
		defer cancel()
	}
	if err := h.DB.PingContext(ctx); err != nil {
		applog.Error(c, "health.db.fail", err, nil)
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"ok": false})
	}
	return c.JSON(fiber.Map{"ok": true})
}
