package database

import (
	"embed"

	logg "portal/internal/logger"

	migrate "github.com/rubenv/sql-migrate"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

func migrationSource() *migrate.EmbedFileSystemMigrationSource {
	return &migrate.EmbedFileSystemMigrationSource{
		FileSystem: migrationFiles,
		Root:       "migrations",
	}
}

func (s *DB) dialect() string {
	if s.Driver == "postgres" {
		return "postgres"
	}
	return "sqlite3"
}

// Migrate applies every pending up migration and returns how many ran.
func (s *DB) Migrate() (int, error) {
	log := logg.New("database").Function("Migrate")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	applied, err := migrate.Exec(sqlDB, s.dialect(), migrationSource(), migrate.Up)
	if err != nil {
		return applied, log.Err("failed to apply migrations", err)
	}

	log.Info("Migrations applied", "count", applied)
	return applied, nil
}

// Rollback undoes up to steps migrations, most recent first.
func (s *DB) Rollback(steps int) (int, error) {
	log := logg.New("database").Function("Rollback")

	sqlDB, err := s.SQL.DB()
	if err != nil {
		return 0, log.Err("failed to get database from GORM", err)
	}

	rolled, err := migrate.ExecMax(sqlDB, s.dialect(), migrationSource(), migrate.Down, steps)
	if err != nil {
		return rolled, log.Err("failed to roll back migrations", err, "steps", steps)
	}

	log.Info("Migrations rolled back", "count", rolled)
	return rolled, nil
}
