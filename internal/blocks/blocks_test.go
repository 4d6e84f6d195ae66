package blocks

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/butina/internal/resource"
)

func TestTriangular(t *testing.T) {
	assert.Nil(t, Triangular(0, 10))

	for _, n := range []int{1, 2, 7, 100} {
		for _, per := range []int{1, 5, 64, 0} {
			ranges := Triangular(n, per)
			require.NotEmpty(t, ranges)

			// Contiguous cover of [0, n).
			assert.Equal(t, 0, ranges[0].Lo)
			assert.Equal(t, n, ranges[len(ranges)-1].Hi)
			total := 0
			for i, r := range ranges {
				assert.Positive(t, r.Len())
				if i > 0 {
					assert.Equal(t, ranges[i-1].Hi, r.Lo)
				}
				total += r.Pairs(n)
			}
			assert.Equal(t, n*(n-1)/2, total, "n=%d per=%d", n, per)
		}
	}
}

func TestTriangular_Balanced(t *testing.T) {
	ranges := Triangular(100, 500)
	for _, r := range ranges[:len(ranges)-1] {
		assert.GreaterOrEqual(t, r.Pairs(100), 500)
		// Removing the last row of a block drops it under the target.
		assert.Less(t, Range{Lo: r.Lo, Hi: r.Hi - 1}.Pairs(100), 500)
	}
}

func TestRun(t *testing.T) {
	ranges := Triangular(50, 20)
	rc := resource.NewController(resource.Config{MaxWorkers: 3})

	seen := make([]atomic.Int32, len(ranges))
	err := Run(context.Background(), ranges, rc, func(_ context.Context, block int, r Range) error {
		assert.Equal(t, ranges[block], r)
		seen[block].Add(1)
		return nil
	})
	require.NoError(t, err)

	for i := range seen {
		assert.Equal(t, int32(1), seen[i].Load())
	}
}

func TestRun_Error(t *testing.T) {
	boom := errors.New("boom")
	err := Run(context.Background(), Triangular(20, 1), nil, func(_ context.Context, block int, _ Range) error {
		if block == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	err := Run(ctx, Triangular(20, 1), resource.NewController(resource.Config{MaxWorkers: 1}), func(context.Context, int, Range) error {
		calls.Add(1)
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls.Load())
}
