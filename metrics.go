package butina

import (
	"sync/atomic"
	"time"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus;
// metrics/prometheus ships a ready-made implementation.
type MetricsCollector interface {
	// RecordNeighborIndex is called after each neighbor index build.
	// edges is the number of undirected edges, err is nil if successful.
	RecordNeighborIndex(points, edges int, duration time.Duration, err error)

	// RecordClustering is called after each clustering step.
	RecordClustering(clusters, singletons int, duration time.Duration)

	// RecordRun is called after each Run, successful or not.
	RecordRun(points int, duration time.Duration, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordNeighborIndex(int, int, time.Duration, error) {}
func (NoopMetricsCollector) RecordClustering(int, int, time.Duration)           {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, error)                {}

// BasicMetricsCollector provides simple in-memory metrics collection.
// Useful for debugging and basic monitoring without external dependencies.
type BasicMetricsCollector struct {
	IndexCount        atomic.Int64
	IndexErrors       atomic.Int64
	IndexEdges        atomic.Int64
	IndexTotalNanos   atomic.Int64
	ClusterCount      atomic.Int64
	ClustersCreated   atomic.Int64
	SingletonsCreated atomic.Int64
	ClusterTotalNanos atomic.Int64
	RunCount          atomic.Int64
	RunErrors         atomic.Int64
	RunPoints         atomic.Int64
	RunTotalNanos     atomic.Int64
}

// RecordNeighborIndex implements MetricsCollector.
func (b *BasicMetricsCollector) RecordNeighborIndex(points, edges int, duration time.Duration, err error) {
	b.IndexCount.Add(1)
	b.IndexTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.IndexErrors.Add(1)
		return
	}
	b.IndexEdges.Add(int64(edges))
}

// RecordClustering implements MetricsCollector.
func (b *BasicMetricsCollector) RecordClustering(clusters, singletons int, duration time.Duration) {
	b.ClusterCount.Add(1)
	b.ClustersCreated.Add(int64(clusters))
	b.SingletonsCreated.Add(int64(singletons))
	b.ClusterTotalNanos.Add(duration.Nanoseconds())
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(points int, duration time.Duration, err error) {
	b.RunCount.Add(1)
	b.RunPoints.Add(int64(points))
	b.RunTotalNanos.Add(duration.Nanoseconds())
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	return BasicMetricsStats{
		IndexCount:        b.IndexCount.Load(),
		IndexErrors:       b.IndexErrors.Load(),
		IndexEdges:        b.IndexEdges.Load(),
		IndexAvgNanos:     avg(b.IndexTotalNanos.Load(), b.IndexCount.Load()),
		ClusterCount:      b.ClusterCount.Load(),
		ClustersCreated:   b.ClustersCreated.Load(),
		SingletonsCreated: b.SingletonsCreated.Load(),
		ClusterAvgNanos:   avg(b.ClusterTotalNanos.Load(), b.ClusterCount.Load()),
		RunCount:          b.RunCount.Load(),
		RunErrors:         b.RunErrors.Load(),
		RunPoints:         b.RunPoints.Load(),
		RunAvgNanos:       avg(b.RunTotalNanos.Load(), b.RunCount.Load()),
	}
}

func avg(total, count int64) int64 {
	if count == 0 {
		return 0
	}
	return total / count
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	IndexCount        int64
	IndexErrors       int64
	IndexEdges        int64
	IndexAvgNanos     int64
	ClusterCount      int64
	ClustersCreated   int64
	SingletonsCreated int64
	ClusterAvgNanos   int64
	RunCount          int64
	RunErrors         int64
	RunPoints         int64
	RunAvgNanos       int64
}
