// Package search implements exact brute-force similarity ranking over
// stored documents.
package search

import (
	"fmt"
	"math"
	"sort"

	"github.com/vexdb/vexdb/domain/document"
	domainsearch "github.com/vexdb/vexdb/domain/search"
)

// DotProduct computes the raw inner product of two equal-length vectors.
func DotProduct(a, b []float64) float64 {
	var sum float64
	for i := range a {
		sum += a[i] * b[i]
	}
	return sum
}

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns negative infinity when either vector has zero magnitude, so
// degenerate vectors sort after every real score instead of dividing
// by zero.
func CosineSimilarity(a, b []float64) float64 {
	var dot, magA, magB float64
	for i := range a {
		dot += a[i] * b[i]
		magA += a[i] * a[i]
		magB += b[i] * b[i]
	}
	if magA == 0 || magB == 0 {
		return math.Inf(-1)
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

// NegSquaredEuclidean computes the negated squared euclidean distance.
// Negation keeps the uniform higher-is-better ordering shared by all
// metrics: the nearest vector has the greatest (least negative) score.
func NegSquaredEuclidean(a, b []float64) float64 {
	var sum float64
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return -sum
}

// score dispatches to the metric's kernel. Callers guarantee equal
// lengths.
func score(metric domainsearch.Metric, query, embedding []float64) float64 {
	switch metric {
	case domainsearch.MetricCosine:
		return CosineSimilarity(query, embedding)
	case domainsearch.MetricEuclidean:
		return NegSquaredEuclidean(query, embedding)
	default:
		return DotProduct(query, embedding)
	}
}

// Rank scores every candidate document against the query under the given
// metric and returns all candidates ordered best-first. Equal scores are
// ordered by ascending document id so ranking is deterministic under the
// same inputs.
//
// The query length must equal every candidate's dimension; candidates
// come from a single store snapshot, so checking against the first one
// suffices.
func Rank(query []float64, metric domainsearch.Metric, candidates []document.Document) ([]domainsearch.Match, error) {
	if len(candidates) == 0 {
		return []domainsearch.Match{}, nil
	}
	if dim := candidates[0].Dimension(); len(query) != dim {
		return nil, fmt.Errorf("%w: query has %d dimensions, store has %d",
			document.ErrDimensionMismatch, len(query), dim)
	}

	matches := make([]domainsearch.Match, 0, len(candidates))
	for _, c := range candidates {
		s := score(metric, query, c.Embedding())
		matches = append(matches, domainsearch.NewMatch(c.ID(), s, c.Metadata(), c.Content()))
	}

	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Score() != matches[j].Score() {
			return matches[i].Score() > matches[j].Score()
		}
		return matches[i].ID() < matches[j].ID()
	})

	return matches, nil
}
