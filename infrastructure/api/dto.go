package api

// AddDocumentRequest is the body of POST /add_document.
type AddDocumentRequest struct {
	ID        *int64    `json:"id"`
	Embedding []float64 `json:"embedding"`
	Metadata  string    `json:"metadata"`
	Content   string    `json:"content,omitempty"`
}

// AddDocumentResponse acknowledges a stored document.
type AddDocumentResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

// FindNearestRequest is the body of POST /find_nearest (and its
// /search alias).
type FindNearestRequest struct {
	Query          []float64 `json:"query"`
	N              int       `json:"n"`
	Metric         string    `json:"metric"`
	MetadataFilter *string   `json:"metadata_filter"`
}

// MatchResponse is one ranked result. The score is higher-is-better
// across all metrics; it keeps the wire name "distance" that existing
// clients read.
type MatchResponse struct {
	ID       int64   `json:"id"`
	Distance float64 `json:"distance"`
	Metadata string  `json:"metadata"`
	Content  string  `json:"content,omitempty"`
}

// DocumentResponse is the body of GET /documents/{id}.
type DocumentResponse struct {
	ID        int64     `json:"id"`
	Embedding []float64 `json:"embedding"`
	Metadata  string    `json:"metadata"`
	Content   string    `json:"content,omitempty"`
}

// StatsResponse is the body of GET /stats.
type StatsResponse struct {
	Size      int  `json:"size"`
	Dimension *int `json:"dimension"`
}
