package benchmark_test

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/testutil"
)

// ============================================================================
// BENCHMARK METHODOLOGY
// ============================================================================
//
// 1. WARMUP PHASE: run a few iterations before measuring so caches and
//    branch predictors settle.
//
// 2. GC CONTROL: force a GC before measuring so setup garbage does not
//    pause the timed loop.
//
// 3. ONE UNIT PER ITERATION: each b.N iteration is one full operation
//    (one bulk scan, one index build, one clustering run).
//
// 4. FIXED SEEDS: inputs come from testutil.NewRNG so runs are comparable.

// WarmupIterations is the number of warmup iterations before measurement.
const WarmupIterations = 3

// BenchLoop runs fn WarmupIterations times, collects garbage, then measures
// b.N iterations with allocation reporting.
func BenchLoop(b *testing.B, fn func(i int)) {
	b.Helper()

	// Phase 1: Warmup
	for i := 0; i < WarmupIterations; i++ {
		fn(i)
	}

	// Phase 2: GC to clear setup allocations
	runtime.GC()

	// Phase 3: Reset and run
	b.ReportAllocs()
	b.ResetTimer()

	for i := 0; b.Loop(); i++ {
		fn(i)
	}
}

// Library sizes used across benchmarks. Clustered libraries resemble real
// compound series: centers of random bits with mutated analogues.
var sizes = []int{1_000, 5_000}

const (
	numBits = 2048
	density = 0.05
)

func clusteredStore(b *testing.B, n int) *fingerprint.Store {
	b.Helper()
	const perCenter = 20
	return testutil.NewRNG(42).ClusteredStore(n/perCenter, perCenter, numBits, density, 0.1)
}

func sizeName(n int) string {
	return fmt.Sprintf("n=%d", n)
}
