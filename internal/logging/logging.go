// Package logging sets up the process-wide slog logger.
package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/lmittmann/tint"
)

// Setup configures a tinted slog handler at the given level ("debug", "info",
// "warn", "error") and installs it as the default logger.
func Setup(level string) *slog.Logger {
	log := slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      parseLevel(level),
		TimeFormat: "2006-01-02 15:04:05",
	}))
	slog.SetDefault(log)
	return log
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
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
