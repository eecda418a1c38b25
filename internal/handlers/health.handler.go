package handlers

import (
	"context"
	"time"

	"portal/internal/app"

	"github.com/gofiber/fiber/v2"
)

func HealthHandler(router fiber.Router, app *app.App) {
	router.Get("/health", func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()

		code, status, database := fiber.StatusOK, "ok", "ok"
		if err := app.Database.Ping(ctx); err != nil {
			code, status, database = fiber.StatusServiceUnavailable, "degraded", "unavailable"
		}

		return c.Status(code).JSON(fiber.Map{
			"status":      status,
			"version":     app.Config.GeneralVersion,
			"environment": app.Config.Environment,
			"database":    database,
			"websockets":  app.Websocket.ClientCount(),
			"timestamp":   time.Now().UTC(),
		})
	})
}
