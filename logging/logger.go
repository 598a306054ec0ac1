// Package logging provides the structured logger shared by the service,
// storage and HTTP layers.
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
)

// Logger wraps slog.Logger with vecnode-specific helpers.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs to w.
func NewJSONLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: level}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs to w.
func NewTextLogger(w io.Writer, level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return NewLogger(slog.NewTextHandler(io.Discard, nil))
}

// New builds a logger from the textual format ("json" or "text") and level
// ("debug", "info", "warn", "error") used in configuration.
func New(w io.Writer, format, level string) (*Logger, error) {
	lvl, err := ParseLevel(level)
	if err != nil {
		return nil, err
	}
	switch strings.ToLower(format) {
	case "", "json":
		return NewJSONLogger(w, lvl), nil
	case "text":
		return NewTextLogger(w, lvl), nil
	default:
		return nil, fmt.Errorf("logging: unknown format %q", format)
	}
}

// ParseLevel converts a level name into a slog.Level.
func ParseLevel(s string) (slog.Level, error) {
	var lvl slog.Level
	if s == "" {
		return slog.LevelInfo, nil
	}
	if err := lvl.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("logging: %w", err)
	}
	return lvl, nil
}

// With returns a Logger carrying the given attributes.
func (l *Logger) With(args ...any) *Logger {
	return &Logger{Logger: l.Logger.With(args...)}
}

// WithNode adds the node identifier to every record.
func (l *Logger) WithNode(node string) *Logger {
	return l.With("node", node)
}

// LogAppend logs an append of a single vector.
func (l *Logger) LogAppend(ctx context.Context, id string, dimension int, d time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "append failed",
			"id", id,
			"dimension", dimension,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "append completed",
		"id", id,
		"dimension", dimension,
		"duration", d,
	)
}

// LogCount logs a row count.
func (l *Logger) LogCount(ctx context.Context, count int64, err error) {
	if err != nil {
		l.ErrorContext(ctx, "count failed", "error", err)
		return
	}
	l.DebugContext(ctx, "count completed", "count", count)
}

// LogBackend logs the outcome of opening the storage backend.
func (l *Logger) LogBackend(ctx context.Context, path string, err error) {
	if err != nil {
		l.WarnContext(ctx, "storage backend unavailable, running degraded",
			"path", path,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "storage backend ready", "path", path)
}
