package fingerprint

import (
	"encoding/hex"
	"fmt"
	"math/bits"
	"slices"

	"github.com/hupe1980/butina/internal/popcount"
)

// DefaultLength is the conventional fingerprint size in bits.
const DefaultLength = 2048

// Fingerprint is an immutable fixed-length bit vector.
type Fingerprint struct {
	words []uint64
	nbits int
	count int
}

// WordsFor returns the number of uint64 words needed for nbits.
func WordsFor(nbits int) int {
	return (nbits + 63) / 64
}

// New creates a fingerprint of nbits with the given bit positions set.
func New(nbits int, on ...int) (*Fingerprint, error) {
	if nbits <= 0 {
		return nil, ErrInvalidLength
	}
	words := make([]uint64, WordsFor(nbits))
	for _, b := range on {
		if b < 0 || b >= nbits {
			return nil, fmt.Errorf("%w: %d not in [0, %d)", ErrBitOutOfRange, b, nbits)
		}
		words[b/64] |= 1 << (uint(b) % 64)
	}
	return newFromOwnedWords(words, nbits), nil
}

// FromWords creates a fingerprint from packed words. The words are copied and
// any bits beyond nbits are cleared.
func FromWords(words []uint64, nbits int) (*Fingerprint, error) {
	if nbits <= 0 {
		return nil, ErrInvalidLength
	}
	if len(words) != WordsFor(nbits) {
		return nil, fmt.Errorf("%w: %d bits need %d words, got %d", ErrLengthMismatch, nbits, WordsFor(nbits), len(words))
	}
	return newFromOwnedWords(slices.Clone(words), nbits), nil
}

// FromBytes creates a fingerprint from bytes where bit i is
// data[i/8]>>(i%8)&1. len(data) must be (nbits+7)/8.
func FromBytes(data []byte, nbits int) (*Fingerprint, error) {
	if nbits <= 0 {
		return nil, ErrInvalidLength
	}
	if len(data) != (nbits+7)/8 {
		return nil, fmt.Errorf("%w: %d bits need %d bytes, got %d", ErrLengthMismatch, nbits, (nbits+7)/8, len(data))
	}
	words := make([]uint64, WordsFor(nbits))
	for i, b := range data {
		words[i/8] |= uint64(b) << (8 * (uint(i) % 8))
	}
	return newFromOwnedWords(words, nbits), nil
}

// FromHex decodes a hex string in the byte order of FromBytes. If nbits is 0
// the length is taken from the string (4 bits per hex digit).
func FromHex(s string, nbits int) (*Fingerprint, error) {
	data, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("decode fingerprint hex: %w", err)
	}
	if nbits == 0 {
		nbits = len(data) * 8
	}
	return FromBytes(data, nbits)
}

func newFromOwnedWords(words []uint64, nbits int) *Fingerprint {
	if rem := nbits % 64; rem != 0 {
		words[len(words)-1] &= (uint64(1) << uint(rem)) - 1
	}
	return &Fingerprint{
		words: words,
		nbits: nbits,
		count: popcount.Count(words),
	}
}

// Len returns the fingerprint length in bits.
func (f *Fingerprint) Len() int {
	return f.nbits
}

// Popcount returns the number of set bits.
func (f *Fingerprint) Popcount() int {
	return f.count
}

// Test reports whether bit i is set. Out-of-range indices report false.
func (f *Fingerprint) Test(i int) bool {
	if i < 0 || i >= f.nbits {
		return false
	}
	return f.words[i/64]&(1<<(uint(i)%64)) != 0
}

// OnBits returns the indices of all set bits in ascending order.
func (f *Fingerprint) OnBits() []int {
	out := make([]int, 0, f.count)
	for wi, w := range f.words {
		for w != 0 {
			tz := bits.TrailingZeros64(w)
			out = append(out, wi*64+tz)
			w &= w - 1
		}
	}
	return out
}

// Words returns a copy of the packed words.
func (f *Fingerprint) Words() []uint64 {
	return slices.Clone(f.words)
}

// UnsafeWords returns the packed words without copying.
// The slice MUST NOT be modified.
func (f *Fingerprint) UnsafeWords() []uint64 {
	return f.words
}

// Bytes returns the fingerprint in the byte order accepted by FromBytes.
func (f *Fingerprint) Bytes() []byte {
	out := make([]byte, (f.nbits+7)/8)
	for i := range out {
		out[i] = byte(f.words[i/8] >> (8 * (uint(i) % 8)))
	}
	return out
}

// Hex returns the lowercase hex encoding of Bytes.
func (f *Fingerprint) Hex() string {
	return hex.EncodeToString(f.Bytes())
}

// Equal reports whether two fingerprints have the same length and bits.
func (f *Fingerprint) Equal(other *Fingerprint) bool {
	if other == nil {
		return false
	}
	return f.nbits == other.nbits && slices.Equal(f.words, other.words)
}

// String implements fmt.Stringer.
func (f *Fingerprint) String() string {
	return fmt.Sprintf("Fingerprint(len=%d, popcount=%d)", f.nbits, f.count)
}
