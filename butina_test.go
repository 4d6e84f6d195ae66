package butina

import (
	"bytes"
	"context"
	"log/slog"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/similarity"
	"github.com/hupe1980/butina/testutil"
)

func abcd() []*fingerprint.Fingerprint {
	return []*fingerprint.Fingerprint{
		testutil.MustFingerprint(64, 0, 1, 2, 3),
		testutil.MustFingerprint(64, 0, 1, 2, 4),
		testutil.MustFingerprint(64, 0, 1, 2, 5),
		testutil.MustFingerprint(64, 60, 61),
	}
}

func TestRun(t *testing.T) {
	ctx := context.Background()

	t.Run("ThreeSimilarOneOutlier", func(t *testing.T) {
		res, err := RunFingerprints(ctx, abcd(), WithThreshold(0.5))
		require.NoError(t, err)

		require.Equal(t, 2, res.Len())
		assert.Equal(t, []int{0, 1, 2}, res.Members(0))
		assert.Equal(t, []int{3}, res.Members(1))
		assert.Equal(t, []int{0, 0, 0, 1}, res.Assignments())
		assert.Equal(t, 3, res.Edges)
		assert.NotEmpty(t, res.RunID)
		assert.InDelta(t, 0.5, res.Config.SimilarityCutoff(), 1e-12)
	})

	t.Run("ThresholdAndCutoffAgreeAtBoundary", func(t *testing.T) {
		fps := []*fingerprint.Fingerprint{
			testutil.MustFingerprint(16, 0, 1, 2, 3, 4, 5, 6, 7, 8, 9),
			testutil.MustFingerprint(16, 0, 1, 2, 3, 4, 5, 6),
		}
		byThreshold, err := RunFingerprints(ctx, fps, WithThreshold(0.3))
		require.NoError(t, err)
		byCutoff, err := RunFingerprints(ctx, fps, WithSimilarityCutoff(0.7))
		require.NoError(t, err)

		require.Equal(t, 1, byThreshold.Len())
		assert.Equal(t, []int{0, 1}, byThreshold.Members(0))
		assert.Equal(t, byThreshold.Assignments(), byCutoff.Assignments())
	})

	t.Run("EmptyInput", func(t *testing.T) {
		res, err := RunFingerprints(ctx, nil)
		require.NoError(t, err)
		assert.Equal(t, 0, res.Len())
		assert.Empty(t, res.Assignments())
	})

	t.Run("SinglePoint", func(t *testing.T) {
		res, err := RunFingerprints(ctx, abcd()[:1])
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		assert.Equal(t, []int{0}, res.Members(0))
	})

	t.Run("ThresholdZeroIdentical", func(t *testing.T) {
		fp := testutil.MustFingerprint(64, 4, 9)
		res, err := RunFingerprints(ctx, []*fingerprint.Fingerprint{fp, fp, fp}, WithThreshold(0))
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		assert.Equal(t, []int{0, 1, 2}, res.Members(0))
	})

	t.Run("ThresholdOneAllConnected", func(t *testing.T) {
		res, err := RunFingerprints(ctx, abcd(), WithThreshold(1))
		require.NoError(t, err)
		require.Equal(t, 1, res.Len())
		assert.Equal(t, []int{0, 1, 2, 3}, res.Members(0))
	})

	t.Run("AllEmptyFingerprints", func(t *testing.T) {
		fps := []*fingerprint.Fingerprint{
			testutil.MustFingerprint(64),
			testutil.MustFingerprint(64),
		}
		// Zero over zero is similarity 0, so empty fingerprints are
		// neighbors only at threshold 1.
		res, err := RunFingerprints(ctx, fps, WithThreshold(0.99))
		require.NoError(t, err)
		assert.Equal(t, 2, res.Len())
	})

	t.Run("SortBySize", func(t *testing.T) {
		fps := append([]*fingerprint.Fingerprint{testutil.MustFingerprint(64, 40, 41)}, abcd()...)
		res, err := RunFingerprints(ctx, fps, WithThreshold(0.5), WithSortBySize(true))
		require.NoError(t, err)
		assert.Equal(t, []int{3, 1, 1}, res.Sizes())
		assert.Equal(t, []int{1, 2, 3}, res.Members(0))
	})

	t.Run("Dice", func(t *testing.T) {
		// Dice similarity of A and B is 6/8, distance 0.25.
		res, err := RunFingerprints(ctx, abcd(), WithThreshold(0.3), WithMetric(similarity.MetricDice))
		require.NoError(t, err)
		assert.Equal(t, []int{0, 1, 2}, res.Members(0))
	})
}

func TestRun_Deterministic(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewRNG(9).ClusteredStore(6, 20, 512, 0.15, 0.08)

	first, err := Run(ctx, store, WithThreshold(0.4), WithWorkers(1))
	require.NoError(t, err)

	for _, workers := range []int{2, 4, 8} {
		for _, block := range []int{1, 64, 1 << 20} {
			res, err := Run(ctx, store, WithThreshold(0.4), WithWorkers(workers), WithBlockSize(block))
			require.NoError(t, err)
			assert.Equal(t, first.Clusters(), res.Clusters(), "workers=%d block=%d", workers, block)
		}
	}
}

func TestRun_ConfigErrors(t *testing.T) {
	ctx := context.Background()
	store := testutil.NewRNG(1).Store(4, 64, 0.3)

	tests := []struct {
		name  string
		opt   Option
		field string
		is    error
	}{
		{"NegativeThreshold", WithThreshold(-0.1), "threshold", ErrInvalidThreshold},
		{"ThresholdAboveOne", WithThreshold(1.5), "threshold", ErrInvalidThreshold},
		{"NaNThreshold", WithThreshold(math.NaN()), "threshold", ErrInvalidThreshold},
		{"CutoffAboveOne", WithSimilarityCutoff(1.2), "threshold", ErrInvalidThreshold},
		{"UnknownMetric", WithMetric(similarity.Metric(42)), "metric", ErrInvalidOption},
		{"NegativeWorkers", WithWorkers(-1), "workers", ErrInvalidOption},
		{"ZeroBlock", WithBlockSize(0), "pairs_per_block", ErrInvalidOption},
		{"NegativeMemory", WithMemoryLimit(-1), "memory_limit", ErrInvalidOption},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Run(ctx, store, tt.opt)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.is)

			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}

	t.Run("InvalidThresholdOnEmptyInput", func(t *testing.T) {
		_, err := RunFingerprints(ctx, nil, WithThreshold(2))
		assert.ErrorIs(t, err, ErrInvalidThreshold)
	})

	t.Run("NilStore", func(t *testing.T) {
		_, err := Run(ctx, nil)
		assert.ErrorIs(t, err, fingerprint.ErrNilFingerprint)
	})

	t.Run("LengthMismatch", func(t *testing.T) {
		fps := []*fingerprint.Fingerprint{
			testutil.MustFingerprint(64, 1),
			testutil.MustFingerprint(128, 1),
		}
		_, err := RunFingerprints(ctx, fps)
		assert.ErrorIs(t, err, ErrLengthMismatch)
	})
}

func TestRun_MemoryLimit(t *testing.T) {
	store := testutil.NewRNG(2).ClusteredStore(2, 30, 128, 0.3, 0.02)
	metrics := &BasicMetricsCollector{}

	_, err := Run(context.Background(), store,
		WithThreshold(1),
		WithMemoryLimit(64),
		WithMetricsCollector(metrics),
	)
	assert.ErrorIs(t, err, ErrMemoryLimitExceeded)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.IndexErrors)
	assert.Equal(t, int64(1), stats.RunErrors)
}

func TestRun_Canceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	store := testutil.NewRNG(3).Store(50, 128, 0.2)
	_, err := Run(ctx, store)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRun_Metrics(t *testing.T) {
	metrics := &BasicMetricsCollector{}
	_, err := RunFingerprints(context.Background(), abcd(),
		WithThreshold(0.5),
		WithMetricsCollector(metrics),
	)
	require.NoError(t, err)

	stats := metrics.GetStats()
	assert.Equal(t, int64(1), stats.IndexCount)
	assert.Equal(t, int64(3), stats.IndexEdges)
	assert.Equal(t, int64(1), stats.ClusterCount)
	assert.Equal(t, int64(2), stats.ClustersCreated)
	assert.Equal(t, int64(1), stats.SingletonsCreated)
	assert.Equal(t, int64(1), stats.RunCount)
	assert.Equal(t, int64(4), stats.RunPoints)
	assert.Zero(t, stats.RunErrors)
}

func TestRun_Logger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	res, err := RunFingerprints(context.Background(), abcd(), WithThreshold(0.5), WithLogger(logger))
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, `"msg":"neighbor index built"`)
	assert.Contains(t, out, `"msg":"clustering completed"`)
	assert.Contains(t, out, `"msg":"run completed"`)
	assert.Contains(t, out, `"run_id":"`+res.RunID+`"`)
}

func TestRun_LoggerFailureLoggedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	store := testutil.NewRNG(2).ClusteredStore(2, 30, 128, 0.3, 0.02)

	_, err := Run(context.Background(), store, WithThreshold(1), WithMemoryLimit(64), WithLogger(logger))
	require.ErrorIs(t, err, ErrMemoryLimitExceeded)

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, `"level":"ERROR"`))
	assert.Contains(t, out, `"msg":"run failed"`)
	assert.Contains(t, out, `"msg":"neighbor index failed"`)
}

func TestConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.InDelta(t, 0.65, cfg.SimilarityCutoff(), 1e-12)
	assert.True(t, cfg.Reordering)
	assert.Contains(t, cfg.String(), "metric=tanimoto")

	o := applyOptions([]Option{WithSimilarityCutoff(0.8), WithReordering(false), nil})
	assert.InDelta(t, 0.2, o.cfg.Threshold, 1e-12)
	assert.False(t, o.cfg.Reordering)

	o = applyOptions([]Option{WithConfig(Config{Threshold: 0.1, PairsPerBlock: 8}), WithWorkers(3)})
	assert.Equal(t, 0.1, o.cfg.Threshold)
	assert.Equal(t, 3, o.cfg.Workers)

	o = applyOptions([]Option{WithLogger(nil), WithMetricsCollector(nil)})
	assert.NotNil(t, o.logger)
	assert.IsType(t, NoopMetricsCollector{}, o.metricsCollector)
}
