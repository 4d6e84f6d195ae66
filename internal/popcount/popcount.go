package popcount

import "math/bits"

// Kernel function pointers, set once at init.
var (
	kernelCount    = countGeneric
	kernelAndCount = andCountGeneric
	kernelOrCount  = orCountGeneric
)

// Count returns the number of set bits across words.
func Count(words []uint64) int {
	return kernelCount(words)
}

// AndCount returns popcount(a AND b).
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func AndCount(a, b []uint64) int {
	return kernelAndCount(a, b)
}

// OrCount returns popcount(a OR b).
//
// SAFETY: Assumes len(a) == len(b). Caller MUST ensure lengths match.
func OrCount(a, b []uint64) int {
	return kernelOrCount(a, b)
}

func countGeneric(words []uint64) int {
	total := 0
	for _, w := range words {
		total += bits.OnesCount64(w)
	}
	return total
}

func andCountGeneric(a, b []uint64) int {
	total := 0
	for i := range a {
		total += bits.OnesCount64(a[i] & b[i])
	}
	return total
}

func orCountGeneric(a, b []uint64) int {
	total := 0
	for i := range a {
		total += bits.OnesCount64(a[i] | b[i])
	}
	return total
}

func countUnrolled(words []uint64) int {
	count := 0
	i := 0
	for ; i+4 <= len(words); i += 4 {
		count += bits.OnesCount64(words[i])
		count += bits.OnesCount64(words[i+1])
		count += bits.OnesCount64(words[i+2])
		count += bits.OnesCount64(words[i+3])
	}
	for ; i < len(words); i++ {
		count += bits.OnesCount64(words[i])
	}
	return count
}

func andCountUnrolled(a, b []uint64) int {
	b = b[:len(a)]
	count := 0
	i := 0
	for ; i+4 <= len(a); i += 4 {
		count += bits.OnesCount64(a[i] & b[i])
		count += bits.OnesCount64(a[i+1] & b[i+1])
		count += bits.OnesCount64(a[i+2] & b[i+2])
		count += bits.OnesCount64(a[i+3] & b[i+3])
	}
	for ; i < len(a); i++ {
		count += bits.OnesCount64(a[i] & b[i])
	}
	return count
}

func orCountUnrolled(a, b []uint64) int {
	b = b[:len(a)]
	count := 0
	i := 0
	for ; i+4 <= len(a); i += 4 {
		count += bits.OnesCount64(a[i] | b[i])
		count += bits.OnesCount64(a[i+1] | b[i+1])
		count += bits.OnesCount64(a[i+2] | b[i+2])
		count += bits.OnesCount64(a[i+3] | b[i+3])
	}
	for ; i < len(a); i++ {
		count += bits.OnesCount64(a[i] | b[i])
	}
	return count
}
