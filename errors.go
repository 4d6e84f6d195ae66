package butina

import (
	"errors"
	"fmt"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/resource"
	"github.com/hupe1980/butina/neighbor"
)

var (
	// ErrInvalidThreshold is returned when the threshold is NaN or outside [0, 1].
	ErrInvalidThreshold = neighbor.ErrInvalidThreshold

	// ErrEmptyInput is returned by operations that need at least one point.
	ErrEmptyInput = neighbor.ErrEmptyInput

	// ErrInvalidOption is returned for out-of-range numeric options.
	ErrInvalidOption = errors.New("invalid option")

	// ErrLengthMismatch is returned when fingerprints differ in length.
	ErrLengthMismatch = fingerprint.ErrLengthMismatch

	// ErrMemoryLimitExceeded is returned when the neighbor index does not fit
	// the configured memory limit.
	ErrMemoryLimitExceeded = resource.ErrMemoryLimitExceeded
)

// ConfigError reports a rejected configuration value.
//
// The underlying sentinel can be matched with errors.Is.
type ConfigError struct {
	Field string
	Value any
	cause error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid %s: %v: %v", e.Field, e.Value, e.cause)
}

func (e *ConfigError) Unwrap() error { return e.cause }

func translateError(err error, cfg Config) error {
	if err == nil {
		return nil
	}

	var ce *ConfigError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, neighbor.ErrInvalidThreshold) {
		return &ConfigError{Field: "threshold", Value: cfg.Threshold, cause: err}
	}

	return err
}
