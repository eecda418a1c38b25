package handlers

import (
	"portal/internal/app"
	authController "portal/internal/controllers/auth"
	"portal/internal/handlers/middleware"
	"portal/internal/logger"
	. "portal/internal/models"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	Handler
	controller *authController.AuthController
	loginLimit int
}

func NewAuthHandler(app app.App, router fiber.Router) *AuthHandler {
	log := logger.New("handlers").File("auth_handler")
	return &AuthHandler{
		controller: app.AuthController,
		loginLimit: app.Config.SecurityLoginRateLimit,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *AuthHandler) Register() {
	auth := h.router.Group("/auth")
	auth.Post("/login", h.middleware.LoginLimiter(h.loginLimit), h.login)

	auth.Post("/register", h.middleware.RequireAdmin, h.register)
	auth.Get("/me", h.middleware.RequireAdmin, h.me)
	auth.Post("/update-password", h.middleware.RequireAdmin, h.updatePassword)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	log := h.log.Function("login")

	var loginRequest LoginRequest
	if err := c.BodyParser(&loginRequest); err != nil {
		log.Debug("failed to parse login request", "error", err)
		return badRequest(c, "Invalid request body")
	}

	result, err := h.controller.Login(c.UserContext(), loginRequest)
	if err != nil {
		return respondError(c, log, err, "Error during login")
	}

	return c.JSON(fiber.Map{
		"message":   "Login successful",
		"token":     result.Token,
		"expiresAt": result.ExpiresAt,
		"admin":     result.Admin,
	})
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	log := h.log.Function("register")

	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug("failed to parse register request", "error", err)
		return badRequest(c, "Invalid request body")
	}

	admin, err := h.controller.Register(c.UserContext(), req)
	if err != nil {
		return respondError(c, log, err, "Error registering admin")
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Admin registered successfully",
		"admin":   admin,
	})
}

func (h *AuthHandler) me(c *fiber.Ctx) error {
	log := h.log.Function("me")

	claims, ok := middleware.Claims(c)
	if !ok {
		log.ErMsg("No admin claims found in locals")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	admin, err := h.controller.Me(c.UserContext(), claims.AdminID)
	if err != nil {
		return respondError(c, log, err, "Error fetching admin info")
	}

	return c.JSON(admin)
}

func (h *AuthHandler) updatePassword(c *fiber.Ctx) error {
	log := h.log.Function("updatePassword")

	claims, ok := middleware.Claims(c)
	if !ok {
		log.ErMsg("No admin claims found in locals")
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid token"})
	}

	var req PasswordUpdateRequest
	if err := c.BodyParser(&req); err != nil {
		log.Debug("failed to parse password update", "error", err)
		return badRequest(c, "Invalid request body")
	}

	if err := h.controller.UpdatePassword(c.UserContext(), claims.AdminID, req); err != nil {
		return respondError(c, log, err, "Error updating password")
	}

	return c.JSON(fiber.Map{"message": "Password updated successfully"})
}
