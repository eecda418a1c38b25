package middleware

import (
	"strings"
	"time"

	"portal/internal/logger"
	"portal/internal/metrics"
	"portal/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

const (
	LocalAdmin   = "admin"
	LocalAdminID = "adminID"
)

type TokenVerifier interface {
	Verify(token string) (*services.Claims, error)
}

type Middleware struct {
	tokens  TokenVerifier
	metrics *metrics.Metrics
	log     logger.Logger
}

func New(tokens TokenVerifier, metrics *metrics.Metrics) Middleware {
	return Middleware{
		tokens:  tokens,
		metrics: metrics,
		log:     logger.New("middleware"),
	}
}

// RequireAdmin accepts only requests carrying a valid bearer token and
// stores the verified claims in Locals.
func (m Middleware) RequireAdmin(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		return unauthorized(c, "Access token required")
	}
	return m.authorize(c, token)
}

// RequireAdminQuery is RequireAdmin for browser websocket clients, which
// cannot set headers on the upgrade request. The token may come from the
// "token" query parameter instead.
func (m Middleware) RequireAdminQuery(c *fiber.Ctx) error {
	token, ok := bearerToken(c.Get(fiber.HeaderAuthorization))
	if !ok {
		token = c.Query("token")
	}
	if token == "" {
		return unauthorized(c, "Access token required")
	}
	return m.authorize(c, token)
}

func (m Middleware) authorize(c *fiber.Ctx, token string) error {
	claims, err := m.tokens.Verify(token)
	if err != nil {
		m.log.Function("authorize").Debug("rejected token", "path", c.Path(), "error", err)
		return unauthorized(c, "Invalid token")
	}

	c.Locals(LocalAdmin, claims)
	c.Locals(LocalAdminID, claims.AdminID)
	return c.Next()
}

// LoginLimiter caps login attempts per client IP within a one minute window.
func (m Middleware) LoginLimiter(max int) fiber.Handler {
	if max <= 0 {
		return func(c *fiber.Ctx) error { return c.Next() }
	}
	return limiter.New(limiter.Config{
		Max:               max,
		Expiration:        time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).
				JSON(fiber.Map{"message": "Too many login attempts, try again later"})
		},
	})
}

// RequestMetrics records the latency of every request under its route
// pattern, so ids in the path do not explode label cardinality.
func (m Middleware) RequestMetrics(c *fiber.Ctx) error {
	start := time.Now()
	err := c.Next()

	code := c.Response().StatusCode()
	if err != nil {
		if fe, ok := err.(*fiber.Error); ok {
			code = fe.Code
		} else {
			code = fiber.StatusInternalServerError
		}
	}

	route := "unmatched"
	if r := c.Route(); r != nil && r.Path != "" {
		route = r.Path
	}
	m.metrics.ObserveRequest(c.Method(), route, code, start)

	return err
}

func Claims(c *fiber.Ctx) (*services.Claims, bool) {
	claims, ok := c.Locals(LocalAdmin).(*services.Claims)
	return claims, ok && claims != nil
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

func unauthorized(c *fiber.Ctx, message string) error {
	return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": message})
}
