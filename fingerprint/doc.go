// Package fingerprint holds fixed-length binary fingerprints and the
// immutable store that assigns each one a dense compound index.
//
// Bits are packed little-endian into uint64 words: bit i lives in word i/64
// at position i%64. Bits at or beyond Len in the last word are always zero,
// so word-wise population counts never see padding.
//
//	fp, _ := fingerprint.New(2048, 1, 17, 1023)
//	store, _ := fingerprint.NewStore([]*fingerprint.Fingerprint{fp, other})
//	store.At(0).Popcount() // 3
package fingerprint
