package fingerprint

import (
	"errors"
	"fmt"
)

var (
	// ErrLengthMismatch reports fingerprints of different bit lengths.
	ErrLengthMismatch = errors.New("fingerprint length mismatch")

	// ErrInvalidLength is returned for non-positive bit lengths.
	ErrInvalidLength = errors.New("fingerprint length must be positive")

	// ErrBitOutOfRange is returned when a bit index is outside [0, Len).
	ErrBitOutOfRange = errors.New("bit index out of range")

	// ErrNilFingerprint is returned when a store is built from a nil entry.
	ErrNilFingerprint = errors.New("nil fingerprint")
)

// LengthMismatchError identifies the first fingerprint whose length differs
// from the rest of a store.
type LengthMismatchError struct {
	Index    int
	Expected int
	Actual   int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("fingerprint %d: length mismatch: expected %d bits, got %d", e.Index, e.Expected, e.Actual)
}

// Is makes errors.Is(err, ErrLengthMismatch) match.
func (e *LengthMismatchError) Is(target error) bool {
	return target == ErrLengthMismatch
}
