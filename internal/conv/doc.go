// Package conv provides checked integer conversions for values read from
// or written to fingerprint library headers.
//
// Counts and lengths in a file header are untrusted; converting them with a
// bare cast can wrap silently and turn a corrupt header into a huge
// allocation. For conversions that are provably safe (loop indices, bounded
// counters), use direct type casts instead.
package conv
