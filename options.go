package butina

import (
	"fmt"
	"log/slog"

	"github.com/hupe1980/butina/internal/blocks"
	"github.com/hupe1980/butina/neighbor"
	"github.com/hupe1980/butina/similarity"
)

// DefaultThreshold is the distance threshold used when none is configured.
// It corresponds to a Tanimoto similarity of 0.65.
const DefaultThreshold = 0.35

// Config is the resolved configuration of a Run.
type Config struct {
	// Threshold is the maximum distance (1 - similarity) between neighbors.
	Threshold float64

	// Metric is the similarity coefficient.
	Metric similarity.Metric

	// Workers bounds the neighbor build concurrency. 0 means GOMAXPROCS.
	Workers int

	// PairsPerBlock is the number of fingerprint pairs per worker block.
	PairsPerBlock int

	// MemoryLimitBytes caps the memory reserved for the neighbor index.
	// 0 means unlimited.
	MemoryLimitBytes int64

	// SortBySize orders clusters by descending size instead of creation order.
	SortBySize bool

	// Reordering recomputes neighbor counts after each cluster.
	Reordering bool
}

// DefaultConfig returns the configuration used when no options are given.
func DefaultConfig() Config {
	return Config{
		Threshold:     DefaultThreshold,
		Metric:        similarity.MetricTanimoto,
		PairsPerBlock: blocks.DefaultPairsPerBlock,
		Reordering:    true,
	}
}

// SimilarityCutoff returns the smallest similarity at which two fingerprints
// are neighbors.
func (c Config) SimilarityCutoff() float64 {
	return 1 - c.Threshold
}

// Validate reports the first invalid field as a *ConfigError.
func (c Config) Validate() error {
	if err := neighbor.ValidateThreshold(c.Threshold); err != nil {
		return &ConfigError{Field: "threshold", Value: c.Threshold, cause: err}
	}
	if c.Metric != similarity.MetricTanimoto && c.Metric != similarity.MetricDice {
		return &ConfigError{Field: "metric", Value: c.Metric, cause: ErrInvalidOption}
	}
	if c.Workers < 0 {
		return &ConfigError{Field: "workers", Value: c.Workers, cause: ErrInvalidOption}
	}
	if c.PairsPerBlock <= 0 {
		return &ConfigError{Field: "pairs_per_block", Value: c.PairsPerBlock, cause: ErrInvalidOption}
	}
	if c.MemoryLimitBytes < 0 {
		return &ConfigError{Field: "memory_limit", Value: c.MemoryLimitBytes, cause: ErrInvalidOption}
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("threshold=%.4g metric=%s workers=%d reordering=%t sort_by_size=%t",
		c.Threshold, c.Metric, c.Workers, c.Reordering, c.SortBySize)
}

type options struct {
	cfg              Config
	metricsCollector MetricsCollector
	logger           *Logger
}

// Option configures Run.
type Option func(*options)

// WithThreshold sets the distance threshold in [0, 1].
// Pairs with distance at most threshold are neighbors.
func WithThreshold(threshold float64) Option {
	return func(o *options) {
		o.cfg.Threshold = threshold
	}
}

// WithSimilarityCutoff sets the threshold from a similarity bound:
// WithSimilarityCutoff(0.7) selects the same neighbors as WithThreshold(0.3).
// The stored threshold is 1 - cutoff; see neighbor.Within for the comparison.
func WithSimilarityCutoff(cutoff float64) Option {
	return func(o *options) {
		o.cfg.Threshold = 1 - cutoff
	}
}

// WithMetric selects the similarity coefficient.
func WithMetric(m similarity.Metric) Option {
	return func(o *options) {
		o.cfg.Metric = m
	}
}

// WithWorkers bounds the number of concurrent neighbor workers.
// 0 uses runtime.GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.cfg.Workers = n
	}
}

// WithBlockSize sets the number of fingerprint pairs per worker block.
// Smaller blocks balance better; larger blocks have less overhead.
func WithBlockSize(pairs int) Option {
	return func(o *options) {
		o.cfg.PairsPerBlock = pairs
	}
}

// WithMemoryLimit caps the bytes reserved for neighbor edges and bitmaps.
// Run fails with ErrMemoryLimitExceeded when the graph does not fit.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.cfg.MemoryLimitBytes = bytes
	}
}

// WithSortBySize orders result clusters by descending size. The sort is
// stable, so equal-size clusters keep creation order.
func WithSortBySize(enabled bool) Option {
	return func(o *options) {
		o.cfg.SortBySize = enabled
	}
}

// WithReordering toggles recomputation of neighbor counts after each
// cluster. Disabling it visits candidates once in initial-degree order.
func WithReordering(enabled bool) Option {
	return func(o *options) {
		o.cfg.Reordering = enabled
	}
}

// WithMetricsCollector configures a metrics collector.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &butina.BasicMetricsCollector{}
//	res, _ := butina.Run(ctx, store, butina.WithMetricsCollector(metrics))
//	stats := metrics.GetStats()
//	fmt.Printf("Runs: %d, Avg latency: %dns\n", stats.RunCount, stats.RunAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		o.cfg = cfg
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		cfg:              DefaultConfig(),
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.metricsCollector == nil {
		o.metricsCollector = NoopMetricsCollector{}
	}
	if o.logger == nil {
		o.logger = NoopLogger()
	}
	return o
}
