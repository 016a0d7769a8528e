// Package observability provides logging, metrics, and tracing.
package observability

import (
	"io"
	"log/slog"
	"strings"
)

// NewHandler builds the base slog handler for env. Production and staging get
// JSON; everything else gets text output for local reading.
func NewHandler(w io.Writer, env, level string) slog.Handler {
	opts := &slog.HandlerOptions{Level: ParseLevel(level)}
	switch strings.ToLower(env) {
	case "production", "prod", "staging":
		return slog.NewJSONHandler(w, opts)
	default:
		return slog.NewTextHandler(w, opts)
	}
}

// ParseLevel maps LOG_LEVEL values onto slog levels, defaulting to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
