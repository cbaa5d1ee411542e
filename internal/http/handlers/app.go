package handlers

import (
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	html "github.com/gofiber/template/html/v2"
	"github.com/google/uuid"

	"userapi/internal/config"
	applog "userapi/internal/log"
	"userapi/web"
)

// NewApp builds the fiber app with the middleware stack and every route.
func NewApp(cfg config.Config, d *Deps) *fiber.App {
	engine := html.NewFileSystem(web.Templates(), ".html")

	app := fiber.New(fiber.Config{
		AppName:      "userapi",
		Views:        engine,
		ErrorHandler: ErrorHandler,
		BodyLimit:    cfg.BodyLimit,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  2 * cfg.ReadTimeout,
	})

	// ---------- Middlewares ----------
	app.Use(recover.New())
	app.Use(requestid.New(requestid.Config{Generator: uuid.NewString}))
	app.Use(logger.New(logger.Config{
		Output: applog.Logger(),
		Format: "${status} ${method} ${path} ${latency} ${locals:requestid}",
	}))
	app.Use(helmet.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: strings.Join([]string{
			fiber.MethodGet, fiber.MethodPost, fiber.MethodPut, fiber.MethodDelete, fiber.MethodOptions,
		}, ","),
		AllowHeaders: "Accept,Content-Type,X-Request-ID",
	}))
	if cfg.RateLimitMax > 0 {
		app.Use(rateLimiter(cfg.RateLimitMax, "rate.global.hit", nil))
	}

	Register(app, d, cfg)
	return app
}

// Register mounts the routes. The catch-all 404 goes last.
func Register(app *fiber.App, d *Deps, cfg config.Config) {
	app.Get("/", d.IndexHandler.Home)
	app.Get("/healthz", d.HealthHandler.Check)

	u := d.UserHandler
	app.Get("/users", u.List)
	app.Post("/users", u.List)
	app.Get("/user/:id", u.Get)
	if cfg.CreateRateMax > 0 {
		app.Post("/user", rateLimiter(cfg.CreateRateMax, "rate.create.hit", func(c *fiber.Ctx) string {
			return c.IP() + "|create"
		}), u.Create)
	} else {
		app.Post("/user", u.Create)
	}
	app.Put("/user/:id", u.Update)
	app.Delete("/user/:id", u.Delete)

	app.Use(NotFound)
}

func rateLimiter(max int, action string, key func(*fiber.Ctx) string) fiber.Handler {
	cfg := limiter.Config{
		Max:        max,
		Expiration: time.Minute,
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, action, nil)
			return fail(c, fiber.StatusTooManyRequests, "rate limit exceeded, retry soon")
		},
	}
	if key != nil {
		cfg.KeyGenerator = key
	}
	return limiter.New(cfg)
}
