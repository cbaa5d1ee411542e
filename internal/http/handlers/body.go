package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

// parseBody decodes the request into dst by content type. JSON and form
// bodies go through the body parser; anything else, including no content
// type, is read from the query string. An empty body leaves dst untouched
// so the required-field check reports what is missing.
func parseBody(c *fiber.Ctx, dst any) error {
	ct := strings.ToLower(string(c.Request().Header.ContentType()))
	switch {
	case strings.HasPrefix(ct, fiber.MIMEApplicationJSON):
		if len(c.Body()) == 0 {
			return nil
		}
		return c.BodyParser(dst)
	case strings.HasPrefix(ct, fiber.MIMEApplicationForm),
		strings.HasPrefix(ct, fiber.MIMEMultipartForm):
		return c.BodyParser(dst)
	default:
		return c.QueryParser(dst)
	}
}
