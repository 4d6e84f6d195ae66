// Package blocks partitions the upper triangle of an all-pairs pass into row
// blocks and runs them on bounded workers.
package blocks

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/butina/internal/resource"
)

// DefaultPairsPerBlock is the target number of (i<j) pairs per block.
const DefaultPairsPerBlock = 1 << 18

// Range is a half-open row range [Lo, Hi).
type Range struct {
	Lo, Hi int
}

// Len returns the number of rows in the range.
func (r Range) Len() int {
	return r.Hi - r.Lo
}

// Pairs returns the number of (i<j) pairs with i in r for n points.
func (r Range) Pairs(n int) int {
	total := 0
	for i := r.Lo; i < r.Hi; i++ {
		total += n - 1 - i
	}
	return total
}

// Triangular splits rows [0, n) into consecutive ranges holding roughly
// pairsPerBlock upper-triangle pairs each. Early rows carry more pairs, so
// early ranges are shorter.
func Triangular(n, pairsPerBlock int) []Range {
	if n <= 0 {
		return nil
	}
	if pairsPerBlock <= 0 {
		pairsPerBlock = DefaultPairsPerBlock
	}

	var out []Range
	lo, acc := 0, 0
	for i := 0; i < n; i++ {
		acc += n - 1 - i
		if acc >= pairsPerBlock {
			out = append(out, Range{Lo: lo, Hi: i + 1})
			lo, acc = i+1, 0
		}
	}
	if lo < n {
		out = append(out, Range{Lo: lo, Hi: n})
	}
	return out
}

// Run calls fn for every range concurrently, bounded by the controller's
// worker slots. The first error cancels the remaining blocks.
// fn receives the block's position in ranges so callers can write into
// pre-sized, block-owned output slots.
func Run(ctx context.Context, ranges []Range, rc *resource.Controller, fn func(ctx context.Context, block int, r Range) error) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rc.Workers())

	for bi, r := range ranges {
		g.Go(func() error {
			if err := rc.AcquireWorker(gctx); err != nil {
				return err
			}
			defer rc.ReleaseWorker()

			if err := gctx.Err(); err != nil {
				return err
			}
			return fn(gctx, bi, r)
		})
	}

	return g.Wait()
}
