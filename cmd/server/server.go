package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
)

// startServer runs the HTTP server until SIGINT or SIGTERM, then drains
// in-flight requests within the configured shutdown timeout.
func (app *application) startServer(ctx context.Context, router chi.Router) error {
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", app.config.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		app.logger.Info("starting server", "addr", server.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			app.cleanup()
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		app.logger.Info("shutdown signal received", "signal", sig.String())

		timeout := time.Duration(app.config.Server.ShutdownTimeout) * time.Second
		if timeout <= 0 {
			timeout = 15 * time.Second
		}
		shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			app.logger.Error("graceful shutdown failed, forcing close", "error", err)
			if closeErr := server.Close(); closeErr != nil {
				app.logger.Error("forced close failed", "error", closeErr)
			}
		}
	}

	app.cleanup()
	app.logger.Info("server stopped")
	return nil
}
