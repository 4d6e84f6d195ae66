package butina

import (
	"context"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with butina-specific context.
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

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
func NewJSONLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	return NewLogger(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
}

// NoopLogger creates a Logger that discards all log output.
func NoopLogger() *Logger {
	return &Logger{
		Logger: slog.New(slog.DiscardHandler),
	}
}

// WithRunID adds a run_id field to the logger.
func (l *Logger) WithRunID(id string) *Logger {
	return &Logger{
		Logger: l.Logger.With("run_id", id),
	}
}

// WithThreshold adds a threshold field to the logger.
func (l *Logger) WithThreshold(threshold float64) *Logger {
	return &Logger{
		Logger: l.Logger.With("threshold", threshold),
	}
}

// LogNeighborIndex logs a neighbor index build at debug level.
// Failures are reported at error level once, by LogRun.
func (l *Logger) LogNeighborIndex(ctx context.Context, points, edges int, took time.Duration, err error) {
	if err != nil {
		l.DebugContext(ctx, "neighbor index failed",
			"points", points,
			"took", took,
			"error", err,
		)
		return
	}
	l.DebugContext(ctx, "neighbor index built",
		"points", points,
		"edges", edges,
		"took", took,
	)
}

// LogClustering logs the clustering step.
func (l *Logger) LogClustering(ctx context.Context, clusters, singletons, largest int, took time.Duration) {
	l.DebugContext(ctx, "clustering completed",
		"clusters", clusters,
		"singletons", singletons,
		"largest", largest,
		"took", took,
	)
}

// LogRun logs a complete run.
func (l *Logger) LogRun(ctx context.Context, points, clusters int, took time.Duration, err error) {
	if err != nil {
		l.ErrorContext(ctx, "run failed",
			"points", points,
			"error", err,
		)
		return
	}
	l.InfoContext(ctx, "run completed",
		"points", points,
		"clusters", clusters,
		"took", took,
	)
}
