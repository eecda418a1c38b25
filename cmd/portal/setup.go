package main

import (
	"io"

	"portal/cmd/migration/initialize"
	"portal/cmd/migration/seed"
	"portal/config"
	"portal/internal/app"
	"portal/internal/logger"

	"github.com/spf13/cobra"
)

// loadConfig reads the configuration and installs the process logger. The
// closer flushes the rotating log file.
func loadConfig() (config.Config, io.Closer, error) {
	cfg, err := config.InitConfig()
	if err != nil {
		return config.Config{}, nil, err
	}

	closer := logger.Setup(logger.Options{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		FilePath:   cfg.LogFilePath,
		MaxSizeMB:  cfg.LogFileMaxSizeMB,
		MaxBackups: cfg.LogFileBackups,
		MaxAgeDays: cfg.LogFileMaxAge,
		Service:    "pension-portal",
		Version:    cfg.GeneralVersion,
	})
	return cfg, closer, nil
}

func newSetupCommand() *cobra.Command {
	var withSamples bool

	cmd := &cobra.Command{
		Use:   "setup",
		Short: "Apply migrations, create the default admin and, in development, sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, closer, err := loadConfig()
			if err != nil {
				return err
			}
			defer closer.Close()

			log := logger.New("main").Function("setup")
			ctx := cmd.Context()

			portal, err := app.New(cfg)
			if err != nil {
				return log.Err("failed to initialize app", err)
			}
			defer portal.Close()

			if err := initialize.InitializeTables(ctx, portal, log); err != nil {
				return err
			}

			if withSamples || cfg.IsDevelopment() {
				if err := seed.Seed(ctx, portal, log); err != nil {
					return err
				}
			}

			if err := portal.Database.FlushAllCaches(ctx); err != nil {
				log.Warn("failed to flush caches", "error", err)
			}

			log.Info("Setup complete")
			return nil
		},
	}

	cmd.Flags().BoolVar(&withSamples, "samples", false, "load sample records outside development")
	return cmd
}
