package initialize

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"portal/config"
	"portal/internal/app"
	"portal/internal/logger"
	. "portal/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeTables_CreatesDefaultAdminOnce(t *testing.T) {
	portal, err := app.New(config.Config{
		Environment:       "production",
		ServerPort:        3000,
		DatabaseDriver:    "sqlite",
		DatabaseDbPath:    filepath.Join(t.TempDir(), "init.db"),
		SecurityJwtSecret: "test-secret",
		SecurityJwtExpiry: time.Hour,
		AdminUsername:     "admin",
		AdminEmail:        "admin@pagmumbai.gov.in",
		AdminPassword:     "admin123",
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = portal.Close() })

	ctx := context.Background()
	log := logger.New("initialize_test")

	require.NoError(t, InitializeTables(ctx, portal, log))
	require.NoError(t, InitializeTables(ctx, portal, log))

	admin, err := portal.AdminRepo.GetByUsername(ctx, "admin")
	require.NoError(t, err)
	assert.Equal(t, RoleSuperAdmin, admin.Role)

	_, err = portal.AuthController.Login(ctx, LoginRequest{Username: "admin", Password: "admin123"})
	assert.NoError(t, err)
}
