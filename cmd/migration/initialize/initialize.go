package initialize

import (
	"context"

	"portal/internal/app"
	"portal/internal/logger"
)

// InitializeTables creates the records every environment needs: today that
// is only the bootstrap admin account.
func InitializeTables(ctx context.Context, app *app.App, log logger.Logger) error {
	log = log.Function("InitializeTables")
	log.Info("Initializing essential production data")

	cfg := app.Config
	admin, created, err := app.AuthController.EnsureDefaultAdmin(ctx, cfg.AdminUsername, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return log.Err("failed to ensure default admin", err, "username", cfg.AdminUsername)
	}

	if created {
		log.Info("Default admin user created", "username", admin.Username, "role", admin.Role)
	} else {
		log.Info("Admin user already exists", "username", admin.Username)
	}

	log.Info("Table initialization complete")
	return nil
}
