package search

// Request represents a nearest-neighbor search request.
type Request struct {
	query  []float64
	topN   int
	metric Metric
	filter string
}

// NewRequest creates a new Request. The query vector is copied.
func NewRequest(query []float64, topN int, metric Metric, filter string) Request {
	vec := make([]float64, len(query))
	copy(vec, query)
	return Request{
		query:  vec,
		topN:   topN,
		metric: metric,
		filter: filter,
	}
}

// Query returns the query vector (copy).
func (r Request) Query() []float64 {
	vec := make([]float64, len(r.query))
	copy(vec, r.query)
	return vec
}

// TopN returns the maximum number of results to return.
func (r Request) TopN() int { return r.topN }

// Metric returns the similarity metric.
func (r Request) Metric() Metric { return r.metric }

// Filter returns the metadata filter expression. Empty means no filter.
func (r Request) Filter() string { return r.filter }
