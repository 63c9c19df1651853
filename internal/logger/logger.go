package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// New constructs a logger for a service. LOG_LEVEL picks the level and
// LOG_FORMAT=json switches from the text handler to the JSON one.
func New(service string) *slog.Logger {
	return NewWithWriter(os.Stdout, service)
}

// NewWithWriter is New with an explicit destination.
func NewWithWriter(w io.Writer, service string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(os.Getenv("LOG_LEVEL"))}

	var h slog.Handler
	if strings.EqualFold(strings.TrimSpace(os.Getenv("LOG_FORMAT")), "json") {
		h = slog.NewJSONHandler(w, opts)
	} else {
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h).With("service", service)
}

// Discard returns a logger that drops everything. Handy in tests.
func Discard() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(raw)) {
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
