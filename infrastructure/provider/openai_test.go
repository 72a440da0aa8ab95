package provider

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexdb/vexdb/internal/config"
)

func embeddingResponse(vectors [][]float32) map[string]any {
	data := make([]map[string]any, len(vectors))
	for i, v := range vectors {
		data[i] = map[string]any{
			"object":    "embedding",
			"index":     i,
			"embedding": v,
		}
	}
	return map[string]any{
		"object": "list",
		"model":  "text-embedding-3-small",
		"data":   data,
		"usage":  map[string]int{"prompt_tokens": 1, "total_tokens": 1},
	}
}

func newEmbedderAgainst(t *testing.T, url string) *OpenAIEmbedder {
	t.Helper()
	ep := config.NewEndpoint().
		WithBaseURL(url + "/v1").
		WithAPIKey("test-key")
	e, err := NewOpenAIEmbedderFromEndpoint(ep)
	require.NoError(t, err)
	e.initialDelay = time.Millisecond
	return e
}

func TestEmbed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		vectors := make([][]float32, len(req.Input))
		for i := range req.Input {
			vectors[i] = []float32{float32(i), 1}
		}
		_ = json.NewEncoder(w).Encode(embeddingResponse(vectors))
	}))
	t.Cleanup(server.Close)

	e := newEmbedderAgainst(t, server.URL)

	vectors, err := e.Embed(context.Background(), []string{"alpha", "beta"})
	require.NoError(t, err)
	require.Len(t, vectors, 2)
	assert.Equal(t, []float64{0, 1}, vectors[0])
	assert.Equal(t, []float64{1, 1}, vectors[1])
}

func TestEmbedEmptyInput(t *testing.T) {
	e := NewOpenAIEmbedder("test-key")

	vectors, err := e.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, vectors)
}

func TestEmbedBatches(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		var req struct {
			Input []string `json:"input"`
		}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.LessOrEqual(t, len(req.Input), 2)

		vectors := make([][]float32, len(req.Input))
		for i := range req.Input {
			vectors[i] = []float32{1}
		}
		_ = json.NewEncoder(w).Encode(embeddingResponse(vectors))
	}))
	t.Cleanup(server.Close)

	e := newEmbedderAgainst(t, server.URL)
	e.batchSize = 2

	vectors, err := e.Embed(context.Background(), []string{"a", "b", "c", "d", "e"})
	require.NoError(t, err)
	assert.Len(t, vectors, 5)
	assert.Equal(t, int32(3), calls.Load())
}

func TestEmbedRetriesServerErrors(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"error":{"message":"overloaded"}}`))
			return
		}
		_ = json.NewEncoder(w).Encode(embeddingResponse([][]float32{{1, 2}}))
	}))
	t.Cleanup(server.Close)

	e := newEmbedderAgainst(t, server.URL)

	vectors, err := e.Embed(context.Background(), []string{"alpha"})
	require.NoError(t, err)
	require.Len(t, vectors, 1)
	assert.Equal(t, []float64{1, 2}, vectors[0])
	assert.Equal(t, int32(2), calls.Load())
}

func TestEmbedGivesUpOnClientError(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"bad key"}}`))
	}))
	t.Cleanup(server.Close)

	e := newEmbedderAgainst(t, server.URL)

	_, err := e.Embed(context.Background(), []string{"alpha"})
	require.Error(t, err)
	var provErr *ProviderError
	require.ErrorAs(t, err, &provErr)
	assert.Equal(t, http.StatusUnauthorized, provErr.StatusCode)
	assert.Equal(t, int32(1), calls.Load())
}

func TestEmbedderFromEndpointUnconfigured(t *testing.T) {
	_, err := NewOpenAIEmbedderFromEndpoint(config.NewEndpoint())
	assert.ErrorIs(t, err, ErrNotConfigured)
}
