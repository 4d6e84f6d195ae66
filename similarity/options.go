package similarity

import (
	"github.com/hupe1980/butina/internal/blocks"
	"github.com/hupe1980/butina/internal/resource"
)

// Options configures all-pairs products.
type Options struct {
	// Metric is the similarity coefficient. Distances are 1 - similarity.
	Metric Metric

	// PairsPerBlock is the target pair count per worker block.
	PairsPerBlock int

	// Resources bounds worker concurrency. Nil means GOMAXPROCS workers.
	Resources *resource.Controller
}

// DefaultOptions contains the default all-pairs configuration.
var DefaultOptions = Options{
	Metric:        MetricTanimoto,
	PairsPerBlock: blocks.DefaultPairsPerBlock,
}

func applyOptions(optFns []func(*Options)) Options {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	return opts
}
