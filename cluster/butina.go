package cluster

import (
	"cmp"
	"container/heap"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
)

// Graph is the read-only neighbor view Butina needs.
// *neighbor.Index implements it.
type Graph interface {
	// Len returns the number of points.
	Len() int
	// Degree returns the size of i's neighbor set.
	Degree(i int) int
	// Intersect returns i's neighbors that are also in other.
	Intersect(i int, other *roaring.Bitmap) *roaring.Bitmap
}

// Cluster is a group of compound indices. Members holds the exemplar first,
// followed by the remaining members in ascending order.
type Cluster struct {
	Exemplar int
	Members  []int
}

// Len returns the number of members.
func (c Cluster) Len() int {
	return len(c.Members)
}

// IsSingleton reports whether the cluster has exactly one member.
func (c Cluster) IsSingleton() bool {
	return len(c.Members) == 1
}

// Options configures Butina.
type Options struct {
	// Reordering recomputes neighbor counts after every cluster so the next
	// exemplar is chosen by its unassigned neighbors. Default true.
	Reordering bool
}

// DefaultOptions contains the default clustering configuration.
var DefaultOptions = Options{
	Reordering: true,
}

// Butina partitions the points of g into clusters.
//
// It runs single-threaded and never fails: every point ends up in exactly
// one cluster. The result is fully determined by g.
func Butina(g Graph, optFns ...func(*Options)) []Cluster {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}

	n := g.Len()
	if n == 0 {
		return nil
	}

	s := newState(g)
	if opts.Reordering {
		s.runReordering()
	} else {
		s.runFixedOrder()
	}
	s.sealSingletons()

	return s.clusters
}

// state is the assignment state machine of a single run.
type state struct {
	g          Graph
	unassigned *roaring.Bitmap
	counts     []int
	clusters   []Cluster
}

func newState(g Graph) *state {
	n := g.Len()
	s := &state{
		g:          g,
		unassigned: roaring.New(),
		counts:     make([]int, n),
	}
	s.unassigned.AddRange(0, uint64(n))
	for i := range s.counts {
		s.counts[i] = g.Degree(i)
	}
	return s
}

// seal assigns exemplar and its unassigned neighbors to a new cluster and
// returns the members. Membership is computed before any state changes.
func (s *state) seal(exemplar int) []int {
	others := s.g.Intersect(exemplar, s.unassigned)

	members := make([]int, 0, 1+others.GetCardinality())
	members = append(members, exemplar)
	it := others.Iterator()
	for it.HasNext() {
		members = append(members, int(it.Next()))
	}

	s.unassigned.Remove(uint32(exemplar))
	s.unassigned.AndNot(others)

	s.clusters = append(s.clusters, Cluster{Exemplar: exemplar, Members: members})
	return members
}

func (s *state) runReordering() {
	h := make(candidateHeap, 0, len(s.counts))
	for i, c := range s.counts {
		h = append(h, candidate{count: c, index: i})
	}
	heap.Init(&h)

	for h.Len() > 0 {
		top := heap.Pop(&h).(candidate)
		// Counts only decrease, so an entry is current iff it matches.
		if top.count != s.counts[top.index] || !s.unassigned.Contains(uint32(top.index)) {
			continue
		}
		if top.count == 0 {
			return
		}

		members := s.seal(top.index)

		for _, m := range members {
			affected := s.g.Intersect(m, s.unassigned)
			it := affected.Iterator()
			for it.HasNext() {
				k := int(it.Next())
				s.counts[k]--
				heap.Push(&h, candidate{count: s.counts[k], index: k})
			}
		}
	}
}

func (s *state) runFixedOrder() {
	order := make([]int, len(s.counts))
	for i := range order {
		order[i] = i
	}
	slices.SortStableFunc(order, func(a, b int) int {
		return cmp.Compare(s.counts[b], s.counts[a])
	})

	for _, i := range order {
		if s.counts[i] == 0 {
			// Isolated points are left for the singleton pass.
			return
		}
		if s.unassigned.Contains(uint32(i)) {
			s.seal(i)
		}
	}
}

func (s *state) sealSingletons() {
	it := s.unassigned.Iterator()
	for it.HasNext() {
		i := int(it.Next())
		s.clusters = append(s.clusters, Cluster{Exemplar: i, Members: []int{i}})
	}
	s.unassigned.Clear()
}

// candidate is a heap entry; stale entries are skipped on pop.
type candidate struct {
	count int
	index int
}

// candidateHeap is a max-heap on count with ties broken by smallest index.
type candidateHeap []candidate

func (h candidateHeap) Len() int { return len(h) }

func (h candidateHeap) Less(i, j int) bool {
	if h[i].count != h[j].count {
		return h[i].count > h[j].count
	}
	return h[i].index < h[j].index
}

func (h candidateHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *candidateHeap) Push(x any) { *h = append(*h, x.(candidate)) }

func (h *candidateHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}
