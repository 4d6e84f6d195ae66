package similarity

import (
	"fmt"
	"strings"

	"github.com/hupe1980/butina/fingerprint"
	"github.com/hupe1980/butina/internal/popcount"
)

// Metric selects the similarity coefficient.
type Metric int

const (
	// MetricTanimoto is |A∩B| / |A∪B|.
	MetricTanimoto Metric = iota
	// MetricDice is 2|A∩B| / (|A|+|B|).
	MetricDice
)

func (m Metric) String() string {
	switch m {
	case MetricTanimoto:
		return "tanimoto"
	case MetricDice:
		return "dice"
	default:
		return fmt.Sprintf("Unknown(%d)", m)
	}
}

// ParseMetric parses a metric name (case-insensitive).
func ParseMetric(s string) (Metric, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tanimoto", "jaccard":
		return MetricTanimoto, nil
	case "dice":
		return MetricDice, nil
	default:
		return 0, fmt.Errorf("unsupported similarity metric: %q", s)
	}
}

// Func computes a similarity in [0, 1] between two fingerprints.
type Func func(a, b *fingerprint.Fingerprint) float64

// Provider returns the similarity function for the given metric.
func Provider(m Metric) (Func, error) {
	switch m {
	case MetricTanimoto:
		return Tanimoto, nil
	case MetricDice:
		return Dice, nil
	default:
		return nil, fmt.Errorf("unsupported similarity metric: %v", m)
	}
}

// mustMatch panics if a and b differ in length.
func mustMatch(a, b *fingerprint.Fingerprint) {
	if a.Len() != b.Len() {
		panic(fmt.Errorf("similarity: %w: %d vs %d bits", fingerprint.ErrLengthMismatch, a.Len(), b.Len()))
	}
}

// Tanimoto returns c / (a + b - c) where a and b are the popcounts of the
// inputs and c the popcount of their intersection. Returns 0 when both
// fingerprints are empty.
func Tanimoto(a, b *fingerprint.Fingerprint) float64 {
	mustMatch(a, b)
	na, nb := a.Popcount(), b.Popcount()
	if na+nb == 0 {
		return 0
	}
	c := popcount.AndCount(a.UnsafeWords(), b.UnsafeWords())
	return float64(c) / float64(na+nb-c)
}

// Dice returns 2c / (a + b). Returns 0 when both fingerprints are empty.
func Dice(a, b *fingerprint.Fingerprint) float64 {
	mustMatch(a, b)
	na, nb := a.Popcount(), b.Popcount()
	if na+nb == 0 {
		return 0
	}
	c := popcount.AndCount(a.UnsafeWords(), b.UnsafeWords())
	return 2 * float64(c) / float64(na+nb)
}

// Distance returns the Tanimoto distance 1 - Tanimoto(a, b).
func Distance(a, b *fingerprint.Fingerprint) float64 {
	return 1 - Tanimoto(a, b)
}

// Bulk returns Tanimoto(query, c) for every candidate, in input order.
func Bulk(query *fingerprint.Fingerprint, candidates []*fingerprint.Fingerprint) []float64 {
	out := make([]float64, len(candidates))
	BulkInto(Tanimoto, query, candidates, out)
	return out
}

// BulkDistance returns Distance(query, c) for every candidate, in input order.
func BulkDistance(query *fingerprint.Fingerprint, candidates []*fingerprint.Fingerprint) []float64 {
	out := Bulk(query, candidates)
	for i := range out {
		out[i] = 1 - out[i]
	}
	return out
}

// BulkInto writes fn(query, candidates[i]) into out[i].
// out must be at least len(candidates) long.
func BulkInto(fn Func, query *fingerprint.Fingerprint, candidates []*fingerprint.Fingerprint, out []float64) {
	out = out[:len(candidates)]
	for i, c := range candidates {
		out[i] = fn(query, c)
	}
}
