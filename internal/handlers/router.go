package handlers

import (
	"portal/internal/app"
	"portal/internal/handlers/middleware"
	"portal/internal/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/websocket/v2"
)

type Handler struct {
	middleware middleware.Middleware
	log        logger.Logger
	router     fiber.Router
}

func Router(router fiber.Router, app *app.App) (err error) {
	router.Use(app.Middleware.RequestMetrics)

	setupWebSocketRoute(router, app)
	router.Get("/metrics", adaptor.HTTPHandler(app.Metrics.Handler()))

	api := router.Group("/api")
	HealthHandler(api, app)
	NewAuthHandler(*app, api).Register()
	NewSubmissionHandler(*app, api).Register()
	NewAdminHandler(*app, api).Register()

	return nil
}

func setupWebSocketRoute(router fiber.Router, app *app.App) {
	router.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	router.Get("/ws", app.Middleware.RequireAdminQuery, websocket.New(func(c *websocket.Conn) {
		app.Websocket.HandleWebSocket(c)
	}))
}
