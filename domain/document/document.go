// Package document provides the core document entity and store contract
// for the vector database.
package document

// Document is a stored vector with its caller-assigned identity and
// opaque payload. The store never interprets embedding values beyond
// their length and numeric content; metadata is used only for filtering
// and content is returned verbatim in results.
type Document struct {
	id        int64
	embedding []float64
	metadata  string
	content   string
}

// New creates a Document. The embedding is copied so later mutation of
// the caller's slice cannot change stored state.
func New(id int64, embedding []float64, metadata, content string) Document {
	vec := make([]float64, len(embedding))
	copy(vec, embedding)
	return Document{
		id:        id,
		embedding: vec,
		metadata:  metadata,
		content:   content,
	}
}

// ID returns the caller-assigned identifier.
func (d Document) ID() int64 { return d.id }

// Embedding returns a copy of the embedding vector.
func (d Document) Embedding() []float64 {
	vec := make([]float64, len(d.embedding))
	copy(vec, d.embedding)
	return vec
}

// Dimension returns the embedding length.
func (d Document) Dimension() int { return len(d.embedding) }

// Metadata returns the opaque metadata string.
func (d Document) Metadata() string { return d.metadata }

// Content returns the opaque document payload.
func (d Document) Content() string { return d.content }
