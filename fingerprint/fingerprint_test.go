package fingerprint

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	fp, err := New(130, 0, 63, 64, 129)
	require.NoError(t, err)

	assert.Equal(t, 130, fp.Len())
	assert.Equal(t, 4, fp.Popcount())
	assert.Equal(t, []int{0, 63, 64, 129}, fp.OnBits())
	assert.True(t, fp.Test(129))
	assert.False(t, fp.Test(1))
	assert.False(t, fp.Test(130))
	assert.False(t, fp.Test(-1))
	assert.Len(t, fp.UnsafeWords(), 3)

	_, err = New(0)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, err = New(8, 8)
	assert.ErrorIs(t, err, ErrBitOutOfRange)
}

func TestFromWords_ClearsPadding(t *testing.T) {
	fp, err := FromWords([]uint64{^uint64(0)}, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, fp.Popcount())

	_, err = FromWords([]uint64{1, 2}, 10)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestWordsAreCopied(t *testing.T) {
	src := []uint64{0b101}
	fp, err := FromWords(src, 64)
	require.NoError(t, err)

	src[0] = 0
	assert.Equal(t, 2, fp.Popcount())

	w := fp.Words()
	w[0] = 0
	assert.True(t, fp.Test(0))
}

func TestBytesHexRoundTrip(t *testing.T) {
	fp, err := New(24, 0, 9, 23)
	require.NoError(t, err)

	assert.Equal(t, []byte{0x01, 0x02, 0x80}, fp.Bytes())
	assert.Equal(t, "010280", fp.Hex())

	back, err := FromHex(fp.Hex(), 0)
	require.NoError(t, err)
	assert.True(t, fp.Equal(back))

	_, err = FromHex("zz", 0)
	assert.Error(t, err)

	_, err = FromBytes([]byte{1, 2}, 24)
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestEqual(t *testing.T) {
	a, _ := New(64, 1)
	b, _ := New(64, 1)
	c, _ := New(128, 1)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
	assert.False(t, a.Equal(nil))
	assert.Equal(t, "Fingerprint(len=64, popcount=1)", a.String())
}

func TestStore(t *testing.T) {
	a, _ := New(64, 1)
	b, _ := New(64, 2, 3)

	s, err := NewStore([]*Fingerprint{a, b})
	require.NoError(t, err)
	assert.Equal(t, 2, s.Len())
	assert.Equal(t, 64, s.NumBits())
	assert.Same(t, b, s.At(1))
	assert.Equal(t, int64(16), s.SizeInBytes())
	assert.Len(t, s.Slice(1, 2), 1)

	var seen []int
	for i, fp := range s.All() {
		seen = append(seen, i)
		assert.Same(t, s.At(i), fp)
	}
	assert.Equal(t, []int{0, 1}, seen)
}

func TestStore_Empty(t *testing.T) {
	s, err := NewStore(nil)
	require.NoError(t, err)
	assert.Equal(t, 0, s.Len())
	assert.Equal(t, 0, s.NumBits())
}

func TestStore_Validation(t *testing.T) {
	a, _ := New(64, 1)
	b, _ := New(128, 1)

	_, err := NewStore([]*Fingerprint{a, b})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrLengthMismatch)

	var lm *LengthMismatchError
	require.True(t, errors.As(err, &lm))
	assert.Equal(t, 1, lm.Index)
	assert.Equal(t, 64, lm.Expected)
	assert.Equal(t, 128, lm.Actual)

	_, err = NewStore([]*Fingerprint{a, nil})
	assert.ErrorIs(t, err, ErrNilFingerprint)
}
