package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/butina/fingerprint"
)

// RNG struct encapsulates the random number generator and seed.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Intn returns a non-negative pseudo-random number in [0,n).
func (r *RNG) Intn(n int) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Intn(n)
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// Fingerprint returns a random fingerprint of nbits where each bit is set
// with probability density.
func (r *RNG) Fingerprint(nbits int, density float64) *fingerprint.Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.fingerprintLocked(nbits, density)
}

func (r *RNG) fingerprintLocked(nbits int, density float64) *fingerprint.Fingerprint {
	var on []int
	for b := 0; b < nbits; b++ {
		if r.rand.Float64() < density {
			on = append(on, b)
		}
	}
	fp, err := fingerprint.New(nbits, on...)
	if err != nil {
		panic(err)
	}
	return fp
}

// Fingerprints returns n random fingerprints.
func (r *RNG) Fingerprints(n, nbits int, density float64) []*fingerprint.Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*fingerprint.Fingerprint, n)
	for i := range out {
		out[i] = r.fingerprintLocked(nbits, density)
	}
	return out
}

// Store returns a store of n random fingerprints.
func (r *RNG) Store(n, nbits int, density float64) *fingerprint.Store {
	return MustStore(r.Fingerprints(n, nbits, density))
}

// Mutate returns a copy of fp with each bit flipped with probability rate.
func (r *RNG) Mutate(fp *fingerprint.Fingerprint, rate float64) *fingerprint.Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.mutateLocked(fp, rate)
}

func (r *RNG) mutateLocked(fp *fingerprint.Fingerprint, rate float64) *fingerprint.Fingerprint {
	var on []int
	for b := 0; b < fp.Len(); b++ {
		set := fp.Test(b)
		if r.rand.Float64() < rate {
			set = !set
		}
		if set {
			on = append(on, b)
		}
	}
	out, err := fingerprint.New(fp.Len(), on...)
	if err != nil {
		panic(err)
	}
	return out
}

// ClusteredFingerprints generates centers random centers and perCenter
// mutated copies of each. The result is shuffled so families are not
// contiguous by index.
func (r *RNG) ClusteredFingerprints(centers, perCenter, nbits int, density, flipRate float64) []*fingerprint.Fingerprint {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*fingerprint.Fingerprint, 0, centers*perCenter)
	for c := 0; c < centers; c++ {
		center := r.fingerprintLocked(nbits, density)
		for k := 0; k < perCenter; k++ {
			out = append(out, r.mutateLocked(center, flipRate))
		}
	}
	r.rand.Shuffle(len(out), func(i, j int) { out[i], out[j] = out[j], out[i] })
	return out
}

// ClusteredStore is ClusteredFingerprints wrapped in a store.
func (r *RNG) ClusteredStore(centers, perCenter, nbits int, density, flipRate float64) *fingerprint.Store {
	return MustStore(r.ClusteredFingerprints(centers, perCenter, nbits, density, flipRate))
}

// MustStore builds a store and panics on error.
func MustStore(fps []*fingerprint.Fingerprint) *fingerprint.Store {
	s, err := fingerprint.NewStore(fps)
	if err != nil {
		panic(err)
	}
	return s
}

// MustFingerprint builds a fingerprint and panics on error.
func MustFingerprint(nbits int, on ...int) *fingerprint.Fingerprint {
	fp, err := fingerprint.New(nbits, on...)
	if err != nil {
		panic(err)
	}
	return fp
}
