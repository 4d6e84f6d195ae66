// Package prometheus exports butina run metrics through the Prometheus
// client library.
//
//	c := prometheus.NewCollector("butina")
//	prom.MustRegister(c)
//	res, err := butina.Run(ctx, store, butina.WithMetricsCollector(c))
package prometheus

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/butina"
)

var _ butina.MetricsCollector = (*Collector)(nil)
var _ prometheus.Collector = (*Collector)(nil)

// Collector implements butina.MetricsCollector with Prometheus counters
// and histograms. It is itself a prometheus.Collector and can be
// registered on any registry.
type Collector struct {
	indexBuilds   *prometheus.CounterVec
	indexDuration prometheus.Histogram
	indexEdges    prometheus.Counter
	indexPoints   prometheus.Gauge

	clusterings     prometheus.Counter
	clusterDuration prometheus.Histogram
	clusters        prometheus.Counter
	singletons      prometheus.Counter

	runs        *prometheus.CounterVec
	runDuration prometheus.Histogram
	runPoints   prometheus.Counter
}

// NewCollector creates a Collector whose metric names start with namespace.
func NewCollector(namespace string) *Collector {
	buckets := prometheus.ExponentialBuckets(0.001, 4, 10) // 1ms .. ~4.4min

	return &Collector{
		indexBuilds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neighbor_index_builds_total",
			Help:      "Total number of neighbor index builds",
		}, []string{"status"}),
		indexDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "neighbor_index_duration_seconds",
			Help:      "Neighbor index build duration in seconds",
			Buckets:   buckets,
		}),
		indexEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "neighbor_index_edges_total",
			Help:      "Total undirected edges found within the threshold",
		}),
		indexPoints: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "neighbor_index_points",
			Help:      "Number of fingerprints in the last neighbor index build",
		}),
		clusterings: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusterings_total",
			Help:      "Total number of clustering passes",
		}),
		clusterDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "clustering_duration_seconds",
			Help:      "Clustering pass duration in seconds",
			Buckets:   buckets,
		}),
		clusters: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "clusters_total",
			Help:      "Total clusters produced, singletons included",
		}),
		singletons: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "singletons_total",
			Help:      "Total singleton clusters produced",
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of clustering runs",
		}, []string{"status"}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "End-to-end run duration in seconds",
			Buckets:   buckets,
		}),
		runPoints: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "run_points_total",
			Help:      "Total fingerprints clustered",
		}),
	}
}

func status(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordNeighborIndex implements butina.MetricsCollector.
func (c *Collector) RecordNeighborIndex(points, edges int, duration time.Duration, err error) {
	c.indexBuilds.WithLabelValues(status(err)).Inc()
	c.indexDuration.Observe(duration.Seconds())
	c.indexPoints.Set(float64(points))
	if err == nil {
		c.indexEdges.Add(float64(edges))
	}
}

// RecordClustering implements butina.MetricsCollector.
func (c *Collector) RecordClustering(clusters, singletons int, duration time.Duration) {
	c.clusterings.Inc()
	c.clusterDuration.Observe(duration.Seconds())
	c.clusters.Add(float64(clusters))
	c.singletons.Add(float64(singletons))
}

// RecordRun implements butina.MetricsCollector.
func (c *Collector) RecordRun(points int, duration time.Duration, err error) {
	c.runs.WithLabelValues(status(err)).Inc()
	c.runDuration.Observe(duration.Seconds())
	if err == nil {
		c.runPoints.Add(float64(points))
	}
}

func (c *Collector) collectors() []prometheus.Collector {
	return []prometheus.Collector{
		c.indexBuilds, c.indexDuration, c.indexEdges, c.indexPoints,
		c.clusterings, c.clusterDuration, c.clusters, c.singletons,
		c.runs, c.runDuration, c.runPoints,
	}
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, m := range c.collectors() {
		m.Describe(ch)
	}
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	for _, m := range c.collectors() {
		m.Collect(ch)
	}
}

// WriteTextfile gathers c into a fresh registry and writes it in the text
// exposition format, for node_exporter's textfile collector.
func (c *Collector) WriteTextfile(filename string) error {
	reg := prometheus.NewRegistry()
	if err := reg.Register(c); err != nil {
		return err
	}
	return prometheus.WriteToTextfile(filename, reg)
}
