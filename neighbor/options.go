package neighbor

import (
	"github.com/hupe1980/butina/internal/blocks"
	"github.com/hupe1980/butina/internal/resource"
	"github.com/hupe1980/butina/similarity"
)

// Options configures Build.
type Options struct {
	// Metric is the similarity coefficient. Distances are 1 - similarity.
	Metric similarity.Metric

	// PairsPerBlock is the target pair count per worker block.
	PairsPerBlock int

	// Resources bounds worker concurrency and edge-buffer memory.
	Resources *resource.Controller
}

// DefaultOptions contains the default build configuration.
var DefaultOptions = Options{
	Metric:        similarity.MetricTanimoto,
	PairsPerBlock: blocks.DefaultPairsPerBlock,
}
