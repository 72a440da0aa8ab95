package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/vexdb/vexdb/internal/config"
)

// OpenAIEmbedder generates embeddings against any OpenAI-compatible API.
type OpenAIEmbedder struct {
	client        *openai.Client
	model         string
	batchSize     int
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// OpenAIOption is a functional option for OpenAIEmbedder.
type OpenAIOption func(*OpenAIEmbedder)

// WithModel sets the embedding model.
func WithModel(model string) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.model = model }
}

// WithBatchSize sets the number of texts per embedding API call.
func WithBatchSize(n int) OpenAIOption {
	return func(e *OpenAIEmbedder) {
		if n > 0 {
			e.batchSize = n
		}
	}
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.initialDelay = d }
}

// WithBackoffFactor sets the backoff multiplier.
func WithBackoffFactor(f float64) OpenAIOption {
	return func(e *OpenAIEmbedder) { e.backoffFactor = f }
}

// NewOpenAIEmbedder creates an embedder talking to api.openai.com.
func NewOpenAIEmbedder(apiKey string, opts ...OpenAIOption) *OpenAIEmbedder {
	e := &OpenAIEmbedder{
		client:        openai.NewClient(apiKey),
		model:         config.DefaultEmbeddingModel,
		batchSize:     config.DefaultEndpointBatchSize,
		maxRetries:    config.DefaultEndpointRetries,
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// NewOpenAIEmbedderFromEndpoint creates an embedder from endpoint
// configuration. A custom base URL points the client at local or proxy
// deployments (Ollama, LiteLLM, vLLM) that speak the OpenAI API.
func NewOpenAIEmbedderFromEndpoint(ep config.Endpoint) (*OpenAIEmbedder, error) {
	if !ep.Configured() {
		return nil, ErrNotConfigured
	}

	cc := openai.DefaultConfig(ep.APIKey())
	if ep.BaseURL() != "" {
		cc.BaseURL = ep.BaseURL()
	}
	if ep.Timeout() > 0 {
		cc.HTTPClient = &http.Client{Timeout: ep.Timeout()}
	}

	e := &OpenAIEmbedder{
		client:        openai.NewClientWithConfig(cc),
		model:         ep.Model(),
		batchSize:     ep.BatchSize(),
		maxRetries:    ep.MaxRetries(),
		initialDelay:  2 * time.Second,
		backoffFactor: 2.0,
	}
	if e.model == "" {
		e.model = config.DefaultEmbeddingModel
	}
	if e.batchSize <= 0 {
		e.batchSize = config.DefaultEndpointBatchSize
	}
	return e, nil
}

// Embed generates one vector per text, batching requests to the API.
func (e *OpenAIEmbedder) Embed(ctx context.Context, texts []string) ([][]float64, error) {
	if len(texts) == 0 {
		return [][]float64{}, nil
	}

	vectors := make([][]float64, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}
		batch, err := e.embedBatch(ctx, texts[start:end])
		if err != nil {
			return nil, err
		}
		vectors = append(vectors, batch...)
	}
	return vectors, nil
}

func (e *OpenAIEmbedder) embedBatch(ctx context.Context, texts []string) ([][]float64, error) {
	req := openai.EmbeddingRequest{
		Model: openai.EmbeddingModel(e.model),
		Input: texts,
	}

	var resp openai.EmbeddingResponse
	err := e.withRetry(ctx, func() error {
		var callErr error
		resp, callErr = e.client.CreateEmbeddings(ctx, req)
		if callErr != nil {
			return callErr
		}
		if len(resp.Data) != len(texts) {
			return fmt.Errorf("%w: got %d vectors for %d texts", errVectorCountMismatch, len(resp.Data), len(texts))
		}
		return nil
	})
	if err != nil {
		return nil, e.wrapError("embedding", err)
	}

	vectors := make([][]float64, len(resp.Data))
	for i, data := range resp.Data {
		vectors[i] = make([]float64, len(data.Embedding))
		for j, v := range data.Embedding {
			vectors[i][j] = float64(v)
		}
	}
	return vectors, nil
}

// Close is a no-op for the OpenAI embedder.
func (e *OpenAIEmbedder) Close() error {
	return nil
}

// withRetry executes the function with exponential backoff.
func (e *OpenAIEmbedder) withRetry(ctx context.Context, fn func() error) error {
	delay := e.initialDelay
	var lastErr error

	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		lastErr = fn()
		if lastErr == nil {
			return nil
		}

		if !isRetryable(lastErr) {
			return lastErr
		}

		if attempt < e.maxRetries {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
				delay = time.Duration(float64(delay) * e.backoffFactor)
			}
		}
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

func isRetryable(err error) bool {
	if errors.Is(err, errVectorCountMismatch) {
		return true
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests,
			http.StatusInternalServerError,
			http.StatusBadGateway,
			http.StatusServiceUnavailable,
			http.StatusGatewayTimeout:
			return true
		}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return true
	}

	return false
}

func (e *OpenAIEmbedder) wrapError(operation string, err error) error {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Operation: operation, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
	}

	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return &ProviderError{Operation: operation, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
	}

	return &ProviderError{Operation: operation, Message: err.Error(), Err: err}
}

var _ Embedder = (*OpenAIEmbedder)(nil)
