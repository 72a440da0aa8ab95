// Package search provides the search domain types: distance metrics,
// requests, results, and metadata filtering.
package search

import (
	"fmt"
	"strings"

	"github.com/vexdb/vexdb/domain/document"
)

// Metric identifies the similarity function used for ranking.
type Metric string

// Metric values. Every metric scores higher-is-better so a single
// ordering rule applies across all of them; Euclidean achieves this by
// reporting negative squared distance.
const (
	MetricDot       Metric = "Dot"
	MetricCosine    Metric = "Cosine"
	MetricEuclidean Metric = "Euclidean"
)

// ParseMetric parses a metric name case-insensitively. "dot", "cosine"
// and "euclidean" are accepted in any casing; anything else fails with
// ErrValidation.
func ParseMetric(name string) (Metric, error) {
	switch strings.ToLower(name) {
	case "dot":
		return MetricDot, nil
	case "cosine":
		return MetricCosine, nil
	case "euclidean":
		return MetricEuclidean, nil
	default:
		return "", fmt.Errorf("%w: unknown metric %q", document.ErrValidation, name)
	}
}

// String returns the canonical metric name.
func (m Metric) String() string { return string(m) }
