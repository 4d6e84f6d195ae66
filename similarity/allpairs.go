package similarity

import (
	"context"
	"iter"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/blocks"
)

// Pair is the distance between compound indices I < J.
type Pair struct {
	I, J     int
	Distance float64
}

// Pairs streams every (i<j) pair of the store in row-major order.
// Distances are computed on demand and never stored.
func Pairs(store *fingerprint.Store, m Metric) (iter.Seq[Pair], error) {
	fn, err := Provider(m)
	if err != nil {
		return nil, err
	}

	return func(yield func(Pair) bool) {
		n := store.Len()
		for i := 0; i < n; i++ {
			fi := store.At(i)
			for j := i + 1; j < n; j++ {
				if !yield(Pair{I: i, J: j, Distance: 1 - fn(fi, store.At(j))}) {
					return
				}
			}
		}
	}, nil
}

// CondensedIndex returns the position of pair (i, j), i != j, in the
// lower-triangle list produced by Condensed.
func CondensedIndex(i, j int) int {
	if i < j {
		i, j = j, i
	}
	return i*(i-1)/2 + j
}

// Condensed returns all pairwise distances as a lower-triangle list:
// (1,0), (2,0), (2,1), (3,0), ... of length n(n-1)/2.
func Condensed(ctx context.Context, store *fingerprint.Store, optFns ...func(*Options)) ([]float64, error) {
	opts := applyOptions(optFns)
	fn, err := Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	n := store.Len()
	out := make([]float64, n*(n-1)/2)
	if n < 2 {
		return out, nil
	}

	// Row i of the lower triangle holds i entries; blocks over reversed rows
	// keep the per-block work balanced.
	ranges := blocks.Triangular(n, opts.PairsPerBlock)
	err = blocks.Run(ctx, ranges, opts.Resources, func(_ context.Context, _ int, r blocks.Range) error {
		for k := r.Lo; k < r.Hi; k++ {
			i := n - 1 - k
			if i == 0 {
				continue
			}
			row := out[i*(i-1)/2 : i*(i-1)/2+i]
			BulkInto(fn, store.At(i), store.Slice(0, i), row)
			for j := range row {
				row[j] = 1 - row[j]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// SymMatrix is a dense symmetric distance matrix.
type SymMatrix struct {
	n    int
	data []float64
}

// Len returns the matrix dimension.
func (m *SymMatrix) Len() int {
	return m.n
}

// At returns the distance between i and j.
func (m *SymMatrix) At(i, j int) float64 {
	return m.data[i*m.n+j]
}

// Row returns row i without copying. The slice MUST NOT be modified.
func (m *SymMatrix) Row(i int) []float64 {
	return m.data[i*m.n : (i+1)*m.n]
}

// Matrix returns the full symmetric distance matrix. The diagonal holds the
// self-distance, which is 1 for fingerprints with no set bits and 0 otherwise.
func Matrix(ctx context.Context, store *fingerprint.Store, optFns ...func(*Options)) (*SymMatrix, error) {
	opts := applyOptions(optFns)
	fn, err := Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	n := store.Len()
	m := &SymMatrix{n: n, data: make([]float64, n*n)}
	if n == 0 {
		return m, nil
	}

	// Workers fill the upper triangle of their rows, including the diagonal.
	ranges := blocks.Triangular(n, opts.PairsPerBlock)
	err = blocks.Run(ctx, ranges, opts.Resources, func(_ context.Context, _ int, r blocks.Range) error {
		for i := r.Lo; i < r.Hi; i++ {
			row := m.data[i*n+i : (i+1)*n]
			BulkInto(fn, store.At(i), store.Slice(i, n), row)
			for j := range row {
				row[j] = 1 - row[j]
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Mirror once all workers are done.
	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			m.data[j*n+i] = m.data[i*n+j]
		}
	}
	return m, nil
}
