// Package logging configures structured logging with log/slog.
//
// Servers typically want the JSON handler; the tint handler gives colored
// output for local development.
//
// Environment variables:
//
//	LOG_LEVEL: debug, info, warn, error (default: info)
package logging

import (
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Setup configures the default logger. format is "json" or "text"; the level
// comes from the LOG_LEVEL env var (default: INFO).
func Setup(format string) {
	SetupWithLevel(format, levelFromEnv())
}

// SetupWithLevel configures the default logger at the given level.
func SetupWithLevel(format string, level slog.Level) {
	var handler slog.Handler
	if format == "text" {
		handler = tint.NewHandler(os.Stderr, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: level,
		})
	}
	slog.SetDefault(slog.New(handler))
}

func levelFromEnv() slog.Level {
	switch strings.ToLower(os.Getenv("LOG_LEVEL")) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
