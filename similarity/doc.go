// Package similarity computes Tanimoto (Jaccard) and Dice similarity between
// binary fingerprints, and composes them into all-pairs products.
//
// All kernels use word-wise population counts from internal/popcount.
//
// # Degenerate input
//
// Two fingerprints with no set bits have similarity 0 (distance 1). They
// share no features, so they are treated as maximally dissimilar rather than
// dividing by zero. A fingerprint with no set bits therefore also has
// similarity 0 with itself.
//
// # Contract
//
// Comparing fingerprints of different lengths is a programming error and
// panics with an error wrapping fingerprint.ErrLengthMismatch. Validate
// lengths up front with fingerprint.NewStore.
//
// # All-pairs products
//
//   - Pairs: lazily streams (i<j) distance pairs
//   - Condensed: lower-triangle distance list of length n(n-1)/2
//   - Matrix: full symmetric distance matrix
//
// Condensed and Matrix split rows across workers; each worker writes a
// disjoint output range, so no locking is needed.
package similarity
