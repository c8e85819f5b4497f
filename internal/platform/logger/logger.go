// Package logger provides structured logging functionality for the
// application using Go's standard library log/slog package.
package logger

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
)

// Setup initializes the application's logging system from the configured
// log level. It creates a structured JSON logger writing to stdout, sets it
// as the process default, and returns it.
func Setup(logLevel string) (*slog.Logger, error) {
	level, err := parseLevel(logLevel)
	if err != nil {
		return nil, err
	}

	handler := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})

	log := slog.New(handler)
	slog.SetDefault(log)

	return log, nil
}

func parseLevel(logLevel string) (slog.Level, error) {
	switch strings.ToLower(logLevel) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level %q", logLevel)
	}
}
