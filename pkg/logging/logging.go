// Package logging configures structured logging with log/slog.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config holds logging options.
type Config struct {
	// Level is the minimum level to emit.
	Level slog.Level
	// JSON switches output to JSON (for non-interactive use).
	JSON bool
	// Output defaults to os.Stderr.
	Output io.Writer
}

// DefaultConfig returns a development-friendly configuration. The LOG_LEVEL
// environment variable (DEBUG, INFO, WARN, ERROR) overrides the level.
func DefaultConfig() Config {
	level := slog.LevelInfo
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		level = ParseLevel(v)
	}
	return Config{Level: level, Output: os.Stderr}
}

// ParseLevel converts a level name to a slog.Level, defaulting to info.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Setup builds a logger from cfg and installs it as the slog default.
// Source locations are added at debug level.
func Setup(cfg Config) *slog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}

	opts := &slog.HandlerOptions{
		Level:     cfg.Level,
		AddSource: cfg.Level == slog.LevelDebug,
	}

	var handler slog.Handler
	if cfg.JSON {
		handler = slog.NewJSONHandler(cfg.Output, opts)
	} else {
		handler = slog.NewTextHandler(cfg.Output, opts)
	}

	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
