package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFingerprints_Reproducible(t *testing.T) {
	a := NewRNG(4711).Fingerprints(8, 256, 0.2)
	b := NewRNG(4711).Fingerprints(8, 256, 0.2)

	require.Len(t, a, 8)
	for i := range a {
		assert.True(t, a[i].Equal(b[i]))
		assert.Equal(t, 256, a[i].Len())
	}
}

func TestReset(t *testing.T) {
	rng := NewRNG(7)
	first := rng.Fingerprint(128, 0.5)
	rng.Reset()
	assert.True(t, first.Equal(rng.Fingerprint(128, 0.5)))
	assert.Equal(t, int64(7), rng.Seed())
}

func TestDensity(t *testing.T) {
	rng := NewRNG(1)
	assert.Zero(t, rng.Fingerprint(512, 0).Popcount())
	assert.Equal(t, 512, rng.Fingerprint(512, 1).Popcount())
}

func TestMutate(t *testing.T) {
	rng := NewRNG(3)
	fp := rng.Fingerprint(256, 0.3)

	assert.True(t, fp.Equal(rng.Mutate(fp, 0)))

	inv := rng.Mutate(fp, 1)
	assert.Equal(t, 256-fp.Popcount(), inv.Popcount())
}

func TestClusteredStore(t *testing.T) {
	s := NewRNG(11).ClusteredStore(4, 5, 128, 0.2, 0.01)
	assert.Equal(t, 20, s.Len())
	assert.Equal(t, 128, s.NumBits())
}
