package config

import (
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"

	"github.com/hupe1980/butina"
)

// SetupLogger creates the CLI logger: text or JSON to stderr and, when
// c.File is set, JSON appended to that file as well.
// Returns the logger and a cleanup function to close the file.
func (c LoggingConfig) SetupLogger() (*butina.Logger, func() error, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, nil, err
	}

	stderrHandler := c.handler(os.Stderr, level)
	if c.File == "" {
		return butina.NewLogger(stderrHandler), func() error { return nil }, nil
	}

	file, err := os.OpenFile(c.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		// Fall back to stderr-only if file fails
		logger := butina.NewLogger(stderrHandler)
		logger.Error("failed to open log file, using stderr only", "error", err, "file", c.File)
		return logger, func() error { return nil }, nil
	}

	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	logger := butina.NewLogger(slogmulti.Fanout(stderrHandler, fileHandler))

	return logger, file.Close, nil
}

// SetupLoggerWithWriters creates a fan-out logger with custom writers (for testing).
func (c LoggingConfig) SetupLoggerWithWriters(stderr, file io.Writer) (*butina.Logger, error) {
	level, err := ParseLevel(c.Level)
	if err != nil {
		return nil, err
	}
	fileHandler := slog.NewJSONHandler(file, &slog.HandlerOptions{Level: level})
	return butina.NewLogger(slogmulti.Fanout(c.handler(stderr, level), fileHandler)), nil
}

func (c LoggingConfig) handler(w io.Writer, level slog.Level) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}
	if c.Format == "json" {
		return slog.NewJSONHandler(w, opts)
	}
	return slog.NewTextHandler(w, opts)
}
