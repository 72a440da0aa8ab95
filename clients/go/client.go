// Package client is a Go client for the vexdb HTTP API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultTimeout = 30 * time.Second

// ErrNotFound is returned when the server reports a missing document.
var ErrNotFound = errors.New("document not found")

// APIError carries a non-2xx server response.
type APIError struct {
	StatusCode int
	Message    string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("server returned %d: %s (%s)", e.StatusCode, e.Message, e.Detail)
	}
	return fmt.Sprintf("server returned %d: %s", e.StatusCode, e.Message)
}

// Client talks to a vexdb server.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the X-API-KEY header on write requests.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient overrides the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a Client for the given base URL, e.g. "http://localhost:8444".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Document is a stored document as returned by the server.
type Document struct {
	ID        int64     `json:"id"`
	Embedding []float64 `json:"embedding"`
	Metadata  string    `json:"metadata"`
	Content   string    `json:"content,omitempty"`
}

// Match is a single search result.
type Match struct {
	ID       int64   `json:"id"`
	Distance float64 `json:"distance"`
	Metadata string  `json:"metadata"`
	Content  string  `json:"content,omitempty"`
}

// Stats describes the store contents.
type Stats struct {
	Size      int  `json:"size"`
	Dimension *int `json:"dimension"`
}

type addDocumentRequest struct {
	ID        int64     `json:"id"`
	Embedding []float64 `json:"embedding"`
	Metadata  string    `json:"metadata"`
	Content   string    `json:"content,omitempty"`
}

type addDocumentResponse struct {
	Status string `json:"status"`
	ID     int64  `json:"id"`
}

type findNearestRequest struct {
	Query          []float64 `json:"query"`
	N              int       `json:"n"`
	Metric         string    `json:"metric"`
	MetadataFilter *string   `json:"metadata_filter,omitempty"`
}

type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail"`
}

// AddDocument inserts or replaces a document.
func (c *Client) AddDocument(ctx context.Context, id int64, embedding []float64, metadata, content string) error {
	req := addDocumentRequest{ID: id, Embedding: embedding, Metadata: metadata, Content: content}
	var resp addDocumentResponse
	return c.do(ctx, http.MethodPost, "/add_document", req, &resp)
}

// FindNearest returns the n documents nearest to the query under the given
// metric. An empty metadataFilter matches every document.
func (c *Client) FindNearest(ctx context.Context, query []float64, n int, metric, metadataFilter string) ([]Match, error) {
	req := findNearestRequest{Query: query, N: n, Metric: metric}
	if metadataFilter != "" {
		req.MetadataFilter = &metadataFilter
	}
	var matches []Match
	if err := c.do(ctx, http.MethodPost, "/find_nearest", req, &matches); err != nil {
		return nil, err
	}
	return matches, nil
}

// GetDocument fetches a document by id.
func (c *Client) GetDocument(ctx context.Context, id int64) (Document, error) {
	var doc Document
	err := c.do(ctx, http.MethodGet, fmt.Sprintf("/documents/%d", id), nil, &doc)
	return doc, err
}

// DeleteDocument removes a document by id.
func (c *Client) DeleteDocument(ctx context.Context, id int64) error {
	return c.do(ctx, http.MethodDelete, fmt.Sprintf("/documents/%d", id), nil, nil)
}

// Stats returns the store size and embedding dimension.
func (c *Client) Stats(ctx context.Context) (Stats, error) {
	var stats Stats
	err := c.do(ctx, http.MethodGet, "/stats", nil, &stats)
	return stats, err
}

// Health checks the server health endpoint.
func (c *Client) Health(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/health", nil, nil)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-KEY", c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var apiErr errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&apiErr); decodeErr != nil {
			return &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		}
		return &APIError{StatusCode: resp.StatusCode, Message: apiErr.Error, Detail: apiErr.Detail}
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
