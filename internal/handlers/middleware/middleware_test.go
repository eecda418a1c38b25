package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"portal/internal/metrics"
	. "portal/internal/models"
	"portal/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestApp(t *testing.T) (*fiber.App, string) {
	t.Helper()

	tokens := services.NewTokenService("test-secret", "pension-portal", time.Hour)
	token, _, err := tokens.Generate(&Admin{
		BaseUUIDModel: BaseUUIDModel{ID: "admin-1"},
		Username:      "admin",
		Role:          RoleSuperAdmin,
	})
	require.NoError(t, err)

	m := New(tokens, metrics.New())
	app := fiber.New()
	app.Use(m.RequestMetrics)
	app.Get("/private", m.RequireAdmin, func(c *fiber.Ctx) error {
		claims, ok := Claims(c)
		if !ok {
			return c.SendStatus(fiber.StatusInternalServerError)
		}
		return c.SendString(claims.AdminID + ":" + c.Locals(LocalAdminID).(string))
	})
	app.Get("/ws", m.RequireAdminQuery, func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	app.Post("/login", m.LoginLimiter(2), func(c *fiber.Ctx) error {
		return c.SendString("ok")
	})
	return app, token
}

func TestRequireAdmin(t *testing.T) {
	app, token := newTestApp(t)

	tests := []struct {
		name   string
		header string
		want   int
	}{
		{name: "valid token", header: "Bearer " + token, want: fiber.StatusOK},
		{name: "lowercase scheme", header: "bearer " + token, want: fiber.StatusOK},
		{name: "missing header", header: "", want: fiber.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic " + token, want: fiber.StatusUnauthorized},
		{name: "empty token", header: "Bearer ", want: fiber.StatusUnauthorized},
		{name: "tampered token", header: "Bearer " + token + "x", want: fiber.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(fiber.MethodGet, "/private", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}
			resp, err := app.Test(req)
			require.NoError(t, err)
			assert.Equal(t, tt.want, resp.StatusCode)
		})
	}
}

func TestRequireAdminQuery(t *testing.T) {
	app, token := newTestApp(t)

	resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/ws?token="+token, nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ws", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)

	resp, err = app.Test(httptest.NewRequest(fiber.MethodGet, "/ws?token=garbage", nil))
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
}

func TestLoginLimiter(t *testing.T) {
	app, _ := newTestApp(t)

	codes := make([]int, 0, 3)
	for range 3 {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodPost, "/login", nil))
		require.NoError(t, err)
		codes = append(codes, resp.StatusCode)
	}

	assert.Equal(t, []int{fiber.StatusOK, fiber.StatusOK, fiber.StatusTooManyRequests}, codes)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("  Bearer   abc ")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("abc")
	assert.False(t, ok)
}
