package cluster

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
)

// ErrNotPartition is returned by Assemble when the clusters do not cover
// every index exactly once.
var ErrNotPartition = errors.New("cluster: clusters do not partition the points")

// AssembleOptions configures Assemble.
type AssembleOptions struct {
	// SortBySize orders clusters by descending size. The sort is stable, so
	// clusters of equal size keep their creation order.
	SortBySize bool
}

// Result is an immutable clustering outcome with constant-time lookups in
// both directions.
type Result struct {
	clusters   []Cluster
	assignment []int
}

// Assemble validates clusters as a partition of [0, n) and builds a Result.
// Cluster ordinals in the Result refer to positions after optional sorting.
func Assemble(clusters []Cluster, n int, optFns ...func(*AssembleOptions)) (*Result, error) {
	var opts AssembleOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	if n < 0 {
		return nil, fmt.Errorf("%w: negative point count %d", ErrNotPartition, n)
	}

	ordered := slices.Clone(clusters)
	if opts.SortBySize {
		slices.SortStableFunc(ordered, func(a, b Cluster) int {
			return cmp.Compare(b.Len(), a.Len())
		})
	}

	assignment := make([]int, n)
	for i := range assignment {
		assignment[i] = -1
	}

	seen := 0
	for ord, c := range ordered {
		if c.Len() == 0 {
			return nil, fmt.Errorf("%w: cluster %d is empty", ErrNotPartition, ord)
		}
		for _, m := range c.Members {
			if m < 0 || m >= n {
				return nil, fmt.Errorf("%w: index %d out of range [0, %d)", ErrNotPartition, m, n)
			}
			if prev := assignment[m]; prev >= 0 {
				return nil, fmt.Errorf("%w: index %d in clusters %d and %d", ErrNotPartition, m, prev, ord)
			}
			assignment[m] = ord
			seen++
		}
	}
	if seen != n {
		return nil, fmt.Errorf("%w: %d of %d indices assigned", ErrNotPartition, seen, n)
	}

	return &Result{clusters: ordered, assignment: assignment}, nil
}

// Len returns the number of clusters.
func (r *Result) Len() int {
	return len(r.clusters)
}

// NumPoints returns the number of clustered points.
func (r *Result) NumPoints() int {
	return len(r.assignment)
}

// Clusters returns a copy of the cluster list.
func (r *Result) Clusters() []Cluster {
	out := make([]Cluster, len(r.clusters))
	for i, c := range r.clusters {
		out[i] = Cluster{Exemplar: c.Exemplar, Members: slices.Clone(c.Members)}
	}
	return out
}

// Cluster returns the cluster at ordinal ord.
func (r *Result) Cluster(ord int) Cluster {
	c := r.clusters[ord]
	return Cluster{Exemplar: c.Exemplar, Members: slices.Clone(c.Members)}
}

// Members returns the member indices of cluster ord, exemplar first.
func (r *Result) Members(ord int) []int {
	return slices.Clone(r.clusters[ord].Members)
}

// ClusterOf returns the ordinal of the cluster containing index i.
func (r *Result) ClusterOf(i int) int {
	return r.assignment[i]
}

// Assignments returns the cluster ordinal of every index.
func (r *Result) Assignments() []int {
	return slices.Clone(r.assignment)
}

// Exemplars returns the exemplar of every cluster in order.
func (r *Result) Exemplars() []int {
	out := make([]int, len(r.clusters))
	for i, c := range r.clusters {
		out[i] = c.Exemplar
	}
	return out
}

// Sizes returns the size of every cluster in order.
func (r *Result) Sizes() []int {
	out := make([]int, len(r.clusters))
	for i, c := range r.clusters {
		out[i] = c.Len()
	}
	return out
}

// Singletons returns the number of single-member clusters.
func (r *Result) Singletons() int {
	count := 0
	for _, c := range r.clusters {
		if c.IsSingleton() {
			count++
		}
	}
	return count
}

// LargestSize returns the size of the largest cluster, or 0 when empty.
func (r *Result) LargestSize() int {
	largest := 0
	for _, c := range r.clusters {
		largest = max(largest, c.Len())
	}
	return largest
}
