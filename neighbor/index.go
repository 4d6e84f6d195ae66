package neighbor

import (
	"context"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/blocks"
	"github.com/hupe1980/butina/internal/resource"
	"github.com/hupe1980/butina/similarity"
)

// bytesPerEdge is the edge-buffer footprint of one (i, j) pair.
const bytesPerEdge = 8

// Index holds the symmetric neighbor set of every point.
// It is immutable after Build and safe for concurrent reads.
type Index struct {
	threshold float64
	metric    similarity.Metric
	sets      []*roaring.Bitmap
	edges     int

	rc       *resource.Controller
	reserved int64
}

// Build computes the neighbor index of store for the distance threshold.
//
// It returns ErrInvalidThreshold or ErrEmptyInput before doing any work,
// ctx.Err() if the context is canceled between blocks, and
// resource.ErrMemoryLimitExceeded if edge buffers exceed the memory limit.
func Build(ctx context.Context, store *fingerprint.Store, threshold float64, optFns ...func(*Options)) (*Index, error) {
	if err := ValidateThreshold(threshold); err != nil {
		return nil, err
	}
	n := store.Len()
	if n == 0 {
		return nil, ErrEmptyInput
	}

	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	simFn, err := similarity.Provider(opts.Metric)
	if err != nil {
		return nil, err
	}

	cutoff := 1 - threshold - BoundaryTolerance
	ranges := blocks.Triangular(n, opts.PairsPerBlock)
	edges := make([][]uint32, len(ranges))
	reserved := make([]int64, len(ranges))

	release := func() {
		for _, b := range reserved {
			opts.Resources.ReleaseMemory(b)
		}
	}

	err = blocks.Run(ctx, ranges, opts.Resources, func(_ context.Context, bi int, r blocks.Range) error {
		scratch := make([]float64, n-1-r.Lo)
		var buf []uint32
		for i := r.Lo; i < r.Hi; i++ {
			row := scratch[:n-1-i]
			similarity.BulkInto(simFn, store.At(i), store.Slice(i+1, n), row)
			for k, s := range row {
				if s >= cutoff {
					buf = append(buf, uint32(i), uint32(i+1+k))
				}
			}
		}

		size := int64(cap(buf)/2) * bytesPerEdge
		if err := opts.Resources.AcquireMemory(size); err != nil {
			return fmt.Errorf("neighbor block %d: %w", bi, err)
		}
		reserved[bi] = size
		edges[bi] = buf
		return nil
	})
	if err != nil {
		release()
		return nil, err
	}

	idx := &Index{
		threshold: threshold,
		metric:    opts.Metric,
		sets:      make([]*roaring.Bitmap, n),
		rc:        opts.Resources,
	}
	for i := range idx.sets {
		idx.sets[i] = roaring.New()
	}

	for bi, buf := range edges {
		for k := 0; k < len(buf); k += 2 {
			i, j := buf[k], buf[k+1]
			idx.sets[i].Add(j)
			idx.sets[j].Add(i)
		}
		idx.edges += len(buf) / 2
		edges[bi] = nil
	}
	release()

	for _, s := range idx.sets {
		s.RunOptimize()
	}

	idx.reserved = int64(idx.SizeInBytes())
	if err := opts.Resources.AcquireMemory(idx.reserved); err != nil {
		return nil, fmt.Errorf("neighbor index: %w", err)
	}

	return idx, nil
}

// BoundaryTolerance is how far below 1 - threshold a similarity may fall and
// still count as a neighbor. It absorbs the rounding of 1 - x so that a
// distance threshold t and a similarity cutoff 1 - t select the same pairs.
const BoundaryTolerance = 1e-12

// Within reports whether similarity s is inside the distance threshold.
// Build applies the same rule to every pair.
func Within(s, threshold float64) bool {
	return s >= 1-threshold-BoundaryTolerance
}

// Close releases the index's memory reservation. The index stays readable.
func (x *Index) Close() error {
	x.rc.ReleaseMemory(x.reserved)
	x.reserved = 0
	return nil
}

// Len returns the number of points.
func (x *Index) Len() int {
	return len(x.sets)
}

// Threshold returns the distance threshold the index was built with.
func (x *Index) Threshold() float64 {
	return x.threshold
}

// SimilarityCutoff returns the equivalent minimum similarity, 1 - Threshold.
func (x *Index) SimilarityCutoff() float64 {
	return 1 - x.threshold
}

// Metric returns the similarity metric the index was built with.
func (x *Index) Metric() similarity.Metric {
	return x.metric
}

// Edges returns the number of undirected neighbor pairs.
func (x *Index) Edges() int {
	return x.edges
}

// Degree returns the size of i's neighbor set.
func (x *Index) Degree(i int) int {
	return int(x.sets[i].GetCardinality())
}

// Neighbors returns i's neighbors in ascending order.
func (x *Index) Neighbors(i int) []uint32 {
	return x.sets[i].ToArray()
}

// Contains reports whether j is a neighbor of i.
func (x *Index) Contains(i, j int) bool {
	return x.sets[i].Contains(uint32(j))
}

// Bitmap returns a copy of i's neighbor set.
func (x *Index) Bitmap(i int) *roaring.Bitmap {
	return x.sets[i].Clone()
}

// Intersect returns i's neighbors that are also in other, as a new bitmap.
func (x *Index) Intersect(i int, other *roaring.Bitmap) *roaring.Bitmap {
	return roaring.And(x.sets[i], other)
}

// IntersectCount returns |neighbors(i) ∩ other| without allocating.
func (x *Index) IntersectCount(i int, other *roaring.Bitmap) int {
	return int(x.sets[i].AndCardinality(other))
}

// SizeInBytes returns the serialized size of all neighbor sets.
func (x *Index) SizeInBytes() uint64 {
	var total uint64
	for _, s := range x.sets {
		total += s.GetSizeInBytes()
	}
	return total
}
