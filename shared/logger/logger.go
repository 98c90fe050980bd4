// Package logger configures the process-wide slog logger.
package logger

import (
	"log/slog"
	"os"
	"strings"
)

var level slog.LevelVar

// Log is the process logger. It works before Initialize runs (text handler,
// info level) so tests and early startup can log; main rebuilds it once
// config is loaded.
var Log = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: &level}))

func init() {
	slog.SetDefault(Log)
}

// Initialize rebuilds the global logger from config.
func Initialize(logLevel string, useJSON bool) {
	level.Set(parseLevel(logLevel))
	opts := &slog.HandlerOptions{Level: &level}
	if useJSON {
		Log = slog.New(slog.NewJSONHandler(os.Stderr, opts))
	} else {
		Log = slog.New(slog.NewTextHandler(os.Stderr, opts))
	}
	slog.SetDefault(Log)
}

// Component tags a child logger with the subsystem name so blob store and
// ledger failures can be told apart in aggregated output.
func Component(name string) *slog.Logger {
	return Log.With("component", name)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
