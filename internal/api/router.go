package api

import (
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// NewApp builds the fiber app with every route registered.
func NewApp(sessions *SessionHandler, health *HealthHandler, logger *slog.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "talentscout",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
		BodyLimit:             64 * 1024,
	})
	app.Use(recover.New())
	app.Use(requestLogger(logger))

	Register(app, sessions, health)
	return app
}

// Register wires all HTTP routes onto the given Fiber app.
func Register(app *fiber.App, sessions *SessionHandler, health *HealthHandler) {
	v1 := app.Group("/api/v1")

	v1.Get("/health", health.Health)

	s := v1.Group("/sessions")
	s.Post("/", sessions.Create)
	s.Get("/:id", sessions.Get)
	s.Post("/:id/messages", sessions.Message)
	s.Post("/:id/reset", sessions.Reset)
	s.Delete("/:id", sessions.Delete)
}

func requestLogger(logger *slog.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		logger.Debug("http request",
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start).String(),
		)
		return err
	}
}
