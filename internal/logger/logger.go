// Package logger sets up structured logging with log/slog. Every record
// carries the service name, and a run id can travel through a
// context.Context so each command invocation is traceable in the output.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

type ctxKey string

const runIDKey ctxKey = "run_id"

// New creates a logger writing to w. format is "json" or "text".
func New(w io.Writer, service string, level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if format == "text" {
		handler = slog.NewTextHandler(w, opts)
	} else {
		handler = slog.NewJSONHandler(w, opts)
	}

	return slog.New(handler).With(slog.String("service", service))
}

// Init creates a logger with New and installs it as the slog default.
func Init(w io.Writer, service string, level slog.Level, format string) *slog.Logger {
	l := New(w, service, level, format)
	slog.SetDefault(l)
	return l
}

// ParseLevel maps debug, info, warn and error to a slog level.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

// WithRunID stores a run id in the context.
func WithRunID(ctx context.Context, runID string) context.Context {
	return context.WithValue(ctx, runIDKey, runID)
}

// RunID extracts the run id from context. Returns "" if not set.
func RunID(ctx context.Context) string {
	if v, ok := ctx.Value(runIDKey).(string); ok {
		return v
	}
	return ""
}

// FromContext returns l with the context's run id attached, if any.
func FromContext(ctx context.Context, l *slog.Logger) *slog.Logger {
	if rid := RunID(ctx); rid != "" {
		return l.With(slog.String("run_id", rid))
	}
	return l
}
