package neighbor

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidThreshold is returned for thresholds outside [0, 1].
	ErrInvalidThreshold = errors.New("threshold must be within [0, 1]")

	// ErrEmptyInput is returned when an index is requested for no points.
	ErrEmptyInput = errors.New("at least one fingerprint is required")
)

// ValidateThreshold checks that t is a distance threshold in [0, 1].
func ValidateThreshold(t float64) error {
	if math.IsNaN(t) || t < 0 || t > 1 {
		return fmt.Errorf("%w: got %v", ErrInvalidThreshold, t)
	}
	return nil
}
