// Package testutil provides testing utilities for butina.
//
// This package is intended for use in tests and benchmarks only.
// It generates reproducible random fingerprints, including families of
// near-duplicates that form obvious clusters.
//
// # Random Fingerprints
//
//	rng := testutil.NewRNG(seed)
//	fp := rng.Fingerprint(2048, 0.05)       // ~5% of bits set
//	store := rng.Store(1000, 2048, 0.05)
//
// # Clustered Fingerprints
//
//	store := rng.ClusteredStore(10, 20, 1024, 0.1, 0.02)
package testutil
