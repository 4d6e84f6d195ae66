package fpfile

import (
	"errors"
	"fmt"
)

var (
	// ErrBadMagic is returned when a binary file does not start with "BFP1".
	ErrBadMagic = errors.New("fpfile: bad magic")

	// ErrUnsupportedVersion is returned for binary files newer than this package.
	ErrUnsupportedVersion = errors.New("fpfile: unsupported version")

	// ErrChecksum is returned when the payload checksum does not match.
	ErrChecksum = errors.New("fpfile: checksum mismatch")

	// ErrCorrupt is returned for truncated or inconsistent files.
	ErrCorrupt = errors.New("fpfile: corrupt file")

	// ErrUnknownCompression is returned for an unrecognized compression codec.
	ErrUnknownCompression = errors.New("fpfile: unknown compression")

	// ErrIDCount is returned when IDs and fingerprints differ in count.
	ErrIDCount = errors.New("fpfile: id count does not match fingerprint count")
)

// ParseError reports a malformed FPS line.
type ParseError struct {
	Line  int
	cause error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("fpfile: line %d: %v", e.Line, e.cause)
}

func (e *ParseError) Unwrap() error { return e.cause }
