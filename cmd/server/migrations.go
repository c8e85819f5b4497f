package main

import (
	"embed"
	"fmt"
	"log/slog"

	"github.com/lexday/lexday-api/internal/config"
	"github.com/pressly/goose/v3"
)

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// runMigrations executes the given goose command (up, down, status) against
// the configured Postgres database using the embedded migration files.
func runMigrations(cfg *config.Config, command string) error {
	if cfg.Database.Backend != config.BackendPostgres {
		return fmt.Errorf("migrations require the postgres backend, got %q", cfg.Database.Backend)
	}

	db, err := initDatabase(cfg.Database.URL)
	if err != nil {
		return fmt.Errorf("failed to connect for migrations: %w", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			slog.Warn("failed to close migration database connection", "error", err)
		}
	}()

	goose.SetBaseFS(embeddedMigrations)
	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("failed to set migration dialect: %w", err)
	}

	slog.Info("running migration command", "command", command)

	switch command {
	case "up":
		err = goose.Up(db, "migrations")
	case "down":
		err = goose.Down(db, "migrations")
	case "status":
		err = goose.Status(db, "migrations")
	default:
		return fmt.Errorf("unknown migration command %q (want up, down, or status)", command)
	}
	if err != nil {
		return fmt.Errorf("migration command %q failed: %w", command, err)
	}

	slog.Info("migration command completed", "command", command)
	return nil
}
