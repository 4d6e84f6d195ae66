package fingerprint

import (
	"fmt"
	"iter"
	"slices"
)

// Store is an immutable, ordered collection of equal-length fingerprints.
// The position of a fingerprint is its compound index.
//
// A Store is safe for concurrent reads.
type Store struct {
	fps   []*Fingerprint
	nbits int
}

// NewStore validates that all fingerprints share one length and returns a
// store over them. An empty input yields an empty store with length 0.
func NewStore(fps []*Fingerprint) (*Store, error) {
	s := &Store{fps: slices.Clone(fps)}
	for i, fp := range s.fps {
		if fp == nil {
			return nil, fmt.Errorf("fingerprint %d: %w", i, ErrNilFingerprint)
		}
		if i == 0 {
			s.nbits = fp.nbits
			continue
		}
		if fp.nbits != s.nbits {
			return nil, &LengthMismatchError{Index: i, Expected: s.nbits, Actual: fp.nbits}
		}
	}
	return s, nil
}

// Len returns the number of fingerprints.
func (s *Store) Len() int {
	return len(s.fps)
}

// NumBits returns the shared fingerprint length (0 for an empty store).
func (s *Store) NumBits() int {
	return s.nbits
}

// At returns the fingerprint with compound index i.
func (s *Store) At(i int) *Fingerprint {
	return s.fps[i]
}

// All iterates over (index, fingerprint) in index order.
func (s *Store) All() iter.Seq2[int, *Fingerprint] {
	return func(yield func(int, *Fingerprint) bool) {
		for i, fp := range s.fps {
			if !yield(i, fp) {
				return
			}
		}
	}
}

// Slice returns fingerprints [from, to) without copying the entries.
// The returned slice MUST NOT be modified.
func (s *Store) Slice(from, to int) []*Fingerprint {
	return s.fps[from:to:to]
}

// SizeInBytes estimates the memory held by the packed words.
func (s *Store) SizeInBytes() int64 {
	return int64(len(s.fps)) * int64(WordsFor(s.nbits)) * 8
}
