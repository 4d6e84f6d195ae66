package butina

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/butina/cluster"
	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/resource"
	"github.com/hupe1980/butina/neighbor"
)

// Result is the outcome of a Run.
//
// It embeds the assembled *cluster.Result, so Clusters, ClusterOf,
// Members and the other lookups are available directly.
type Result struct {
	*cluster.Result

	// RunID identifies the run in logs and stored artifacts.
	RunID string

	// Config is the configuration the run used.
	Config Config

	// Edges is the number of undirected neighbor pairs.
	Edges int

	// IndexDuration is the time spent building the neighbor index.
	IndexDuration time.Duration

	// ClusterDuration is the time spent in clustering and assembly.
	ClusterDuration time.Duration
}

// Run clusters the fingerprints in store.
//
// An empty store yields an empty result and no error. Configuration errors
// are returned as *ConfigError before any work starts. The run either
// completes or returns an error; partial results are never returned.
func Run(ctx context.Context, store *fingerprint.Store, optFns ...Option) (*Result, error) {
	o := applyOptions(optFns)
	runID := uuid.NewString()
	logger := o.logger.WithRunID(runID).WithThreshold(o.cfg.Threshold)

	start := time.Now()
	res, err := run(ctx, store, o, runID, logger)

	points := 0
	if store != nil {
		points = store.Len()
	}
	took := time.Since(start)
	o.metricsCollector.RecordRun(points, took, err)
	if err != nil {
		logger.LogRun(ctx, points, 0, took, err)
		return nil, err
	}
	logger.LogRun(ctx, points, res.Len(), took, nil)

	return res, nil
}

// RunFingerprints builds a store from fps and clusters it.
func RunFingerprints(ctx context.Context, fps []*fingerprint.Fingerprint, optFns ...Option) (*Result, error) {
	store, err := fingerprint.NewStore(fps)
	if err != nil {
		return nil, err
	}
	return Run(ctx, store, optFns...)
}

func run(ctx context.Context, store *fingerprint.Store, o options, runID string, logger *Logger) (*Result, error) {
	if err := o.cfg.Validate(); err != nil {
		return nil, err
	}
	if store == nil {
		return nil, &ConfigError{Field: "store", Value: nil, cause: fingerprint.ErrNilFingerprint}
	}

	out := &Result{RunID: runID, Config: o.cfg}

	n := store.Len()
	if n == 0 {
		empty, err := cluster.Assemble(nil, 0)
		if err != nil {
			return nil, err
		}
		out.Result = empty
		return out, nil
	}

	rc := resource.NewController(resource.Config{
		MemoryLimitBytes: o.cfg.MemoryLimitBytes,
		MaxWorkers:       int64(o.cfg.Workers),
	})

	indexStart := time.Now()
	idx, err := neighbor.Build(ctx, store, o.cfg.Threshold, func(no *neighbor.Options) {
		no.Metric = o.cfg.Metric
		no.PairsPerBlock = o.cfg.PairsPerBlock
		no.Resources = rc
	})
	out.IndexDuration = time.Since(indexStart)
	if err != nil {
		o.metricsCollector.RecordNeighborIndex(n, 0, out.IndexDuration, err)
		logger.LogNeighborIndex(ctx, n, 0, out.IndexDuration, err)
		return nil, translateError(err, o.cfg)
	}
	defer func() { _ = idx.Close() }()

	out.Edges = idx.Edges()
	o.metricsCollector.RecordNeighborIndex(n, out.Edges, out.IndexDuration, nil)
	logger.LogNeighborIndex(ctx, n, out.Edges, out.IndexDuration, nil)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	clusterStart := time.Now()
	clusters := cluster.Butina(idx, func(co *cluster.Options) {
		co.Reordering = o.cfg.Reordering
	})
	assembled, err := cluster.Assemble(clusters, n, func(ao *cluster.AssembleOptions) {
		ao.SortBySize = o.cfg.SortBySize
	})
	if err != nil {
		return nil, err
	}
	out.ClusterDuration = time.Since(clusterStart)
	out.Result = assembled

	o.metricsCollector.RecordClustering(assembled.Len(), assembled.Singletons(), out.ClusterDuration)
	logger.LogClustering(ctx, assembled.Len(), assembled.Singletons(), assembled.LargestSize(), out.ClusterDuration)

	return out, nil
}
