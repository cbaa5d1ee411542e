package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	applog "userapi/internal/log"
)

// envelope is the common response wrapper. Every error path sets Error.
type envelope struct {
	Error   bool   `json:"error"`
	Status  string `json:"status,omitempty"`
	Message string `json:"message,omitempty"`
}

func fail(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(envelope{Error: true, Message: msg})
}

// ErrorHandler logs unhandled errors and answers with a generic envelope.
// Client errors raised by fiber keep their code and message.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	msg := "Something went wrong. Please try again."
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
		if code < fiber.StatusInternalServerError {
			msg = fe.Message
		}
	}
	applog.Error(c, "server.error", err, map[string]any{"code": code})
	return fail(c, code, msg)
}

func NotFound(c *fiber.Ctx) error {
	return fail(c, fiber.StatusNotFound, "Route not found")
}
