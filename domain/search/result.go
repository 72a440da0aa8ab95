package search

// Match represents a single ranked search result.
type Match struct {
	id       int64
	score    float64
	metadata string
	content  string
}

// NewMatch creates a new Match.
func NewMatch(id int64, score float64, metadata, content string) Match {
	return Match{
		id:       id,
		score:    score,
		metadata: metadata,
		content:  content,
	}
}

// ID returns the matched document's identifier.
func (m Match) ID() int64 { return m.id }

// Score returns the similarity score (higher is better for all metrics).
func (m Match) Score() float64 { return m.score }

// Metadata returns the matched document's metadata.
func (m Match) Metadata() string { return m.metadata }

// Content returns the matched document's payload.
func (m Match) Content() string { return m.content }
