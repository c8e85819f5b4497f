// Package main implements the entry point for the lexday API server, a
// single-user vocabulary trainer built around a fixed three-phase daily
// study cycle.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/lexday/lexday-api/internal/config"
	"github.com/lexday/lexday-api/internal/platform/logger"
)

func main() {
	migrateCmd := flag.String("migrate", "", "run a migration command (up, down, status) and exit")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if _, err := logger.Setup(cfg.Server.LogLevel); err != nil {
		log.Fatalf("Failed to set up logger: %v", err)
	}

	slog.Info("server configuration loaded",
		"port", cfg.Server.Port,
		"log_level", cfg.Server.LogLevel,
		"backend", cfg.Database.Backend)

	if *migrateCmd != "" {
		if err := runMigrations(cfg, *migrateCmd); err != nil {
			slog.Error("migration failed", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg); err != nil {
		slog.Error("server exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config) error {
	ctx := context.Background()

	app, err := newApplication(ctx, cfg, slog.Default())
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	return app.Run(ctx)
}
