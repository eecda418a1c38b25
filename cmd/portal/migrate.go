package main

import (
	"portal/internal/database"
	"portal/internal/logger"

	"github.com/spf13/cobra"
)

func newMigrateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage the database schema",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Apply pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db database.DB, log logger.Logger) error {
				if _, err := db.Migrate(); err != nil {
					return log.Err("migrate up failed", err)
				}
				return nil
			})
		},
	})

	var steps int
	down := &cobra.Command{
		Use:   "down",
		Short: "Roll back the most recent migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withDatabase(func(db database.DB, log logger.Logger) error {
				if _, err := db.Rollback(steps); err != nil {
					return log.Err("migrate down failed", err, "steps", steps)
				}
				return nil
			})
		},
	}
	down.Flags().IntVar(&steps, "steps", 1, "number of migrations to roll back")
	cmd.AddCommand(down)

	return cmd
}

func withDatabase(fn func(db database.DB, log logger.Logger) error) error {
	cfg, closer, err := loadConfig()
	if err != nil {
		return err
	}
	defer closer.Close()

	log := logger.New("main").Function("migrate")

	db, err := database.New(cfg)
	if err != nil {
		return log.Err("failed to open database", err)
	}
	defer db.Close()

	return fn(db, log)
}
