// Package popcount provides word-wise population count kernels over
// little-endian []uint64 bit vectors.
//
// # Kernels
//
//   - Count: number of set bits in a vector
//   - AndCount: number of set bits in the intersection of two vectors
//   - OrCount: number of set bits in the union of two vectors
//
// The active kernel is chosen once at package init. On CPUs with a hardware
// population count instruction (POPCNT on x86-64, CNT on ARM64) the unrolled
// kernel is used; math/bits lowers OnesCount64 to that instruction. The
// generic kernel is a straight loop and serves as the reference.
//
// Set BUTINA_POPCOUNT=generic or BUTINA_POPCOUNT=unrolled to force a kernel.
package popcount
