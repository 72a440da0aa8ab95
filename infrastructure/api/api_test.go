package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexdb/vexdb/application/service"
	"github.com/vexdb/vexdb/infrastructure/persistence"
)

func newTestRouter(t *testing.T, apiKeys ...string) chi.Router {
	t.Helper()
	store := persistence.NewMemoryStore()
	server := NewAPIServer(
		service.NewDocumentService(store, nil),
		service.NewSearchService(store, nil),
		apiKeys,
		nil,
	)
	router := chi.NewRouter()
	server.MountRoutes(router)
	return router
}

func postJSON(t *testing.T, router chi.Router, path string, body any, headers ...string) *httptest.ResponseRecorder {
	t.Helper()
	data, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(data))
	req.Header.Set("Content-Type", "application/json")
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func addDocument(t *testing.T, router chi.Router, id int64, embedding []float64, metadata string) {
	t.Helper()
	rec := postJSON(t, router, "/add_document", map[string]any{
		"id":        id,
		"embedding": embedding,
		"metadata":  metadata,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestAddDocument(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/add_document", map[string]any{
		"id":        1,
		"embedding": []float64{1, 0},
		"metadata":  "animal: dog",
		"content":   "a good dog",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Status string `json:"status"`
		ID     int64  `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, int64(1), resp.ID)
}

func TestAddDocumentValidation(t *testing.T) {
	router := newTestRouter(t)

	tests := []struct {
		name string
		body map[string]any
	}{
		{
			name: "missing id",
			body: map[string]any{"embedding": []float64{1, 0}},
		},
		{
			name: "empty embedding",
			body: map[string]any{"id": 1, "embedding": []float64{}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/add_document", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
		})
	}
}

func TestAddDocumentDimensionMismatch(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0, 0}, "")

	rec := postJSON(t, router, "/add_document", map[string]any{
		"id":        2,
		"embedding": []float64{1, 0},
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddDocumentMalformedJSON(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/add_document", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFindNearest(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0}, "animal: dog")
	addDocument(t, router, 2, []float64{0, 1}, "animal: cat")

	rec := postJSON(t, router, "/find_nearest", map[string]any{
		"query":  []float64{1, 0},
		"n":      2,
		"metric": "dot",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []struct {
		ID       int64   `json:"id"`
		Distance float64 `json:"distance"`
		Metadata string  `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, int64(1), matches[0].ID)
	assert.InDelta(t, 1.0, matches[0].Distance, 1e-12)
	assert.Equal(t, int64(2), matches[1].ID)
}

func TestSearchAlias(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0}, "")

	rec := postJSON(t, router, "/search", map[string]any{
		"query":  []float64{1, 0},
		"n":      1,
		"metric": "cosine",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestFindNearestMetadataFilter(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0}, "animal: dog")
	addDocument(t, router, 2, []float64{0, 1}, "animal: cat")

	filter := "dog"
	rec := postJSON(t, router, "/find_nearest", map[string]any{
		"query":           []float64{0, 1},
		"n":               5,
		"metric":          "dot",
		"metadata_filter": filter,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, int64(1), matches[0].ID)
}

func TestFindNearestEmptyStoreReturnsEmptyList(t *testing.T) {
	router := newTestRouter(t)

	rec := postJSON(t, router, "/find_nearest", map[string]any{
		"query":  []float64{1, 0},
		"n":      5,
		"metric": "euclidean",
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestFindNearestErrors(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0}, "")

	tests := []struct {
		name string
		body map[string]any
		code int
	}{
		{
			name: "unknown metric",
			body: map[string]any{"query": []float64{1, 0}, "n": 1, "metric": "manhattan"},
			code: http.StatusBadRequest,
		},
		{
			name: "non-positive n",
			body: map[string]any{"query": []float64{1, 0}, "n": 0, "metric": "dot"},
			code: http.StatusBadRequest,
		},
		{
			name: "dimension mismatch",
			body: map[string]any{"query": []float64{1, 0, 0}, "n": 1, "metric": "dot"},
			code: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postJSON(t, router, "/find_nearest", tt.body)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestGetDocument(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 5, []float64{1, 2}, "animal: dog")

	req := httptest.NewRequest(http.MethodGet, "/documents/5", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)

	var doc struct {
		ID        int64     `json:"id"`
		Embedding []float64 `json:"embedding"`
		Metadata  string    `json:"metadata"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &doc))
	assert.Equal(t, int64(5), doc.ID)
	assert.Equal(t, []float64{1, 2}, doc.Embedding)
	assert.Equal(t, "animal: dog", doc.Metadata)
}

func TestGetDocumentNotFound(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/documents/99", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetDocumentInvalidID(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/documents/abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDeleteDocument(t *testing.T) {
	router := newTestRouter(t)
	addDocument(t, router, 1, []float64{1, 0}, "")

	req := httptest.NewRequest(http.MethodDelete, "/documents/1", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/documents/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestStats(t *testing.T) {
	router := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/stats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"size":0,"dimension":null}`, rec.Body.String())

	addDocument(t, router, 1, []float64{1, 0, 0}, "")

	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/stats", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"size":1,"dimension":3}`, rec.Body.String())
}

func TestHealth(t *testing.T) {
	router := newTestRouter(t)

	for _, path := range []string{"/health", "/healthz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestWriteProtection(t *testing.T) {
	router := newTestRouter(t, "secret-key")

	// Writes without a key are rejected.
	rec := postJSON(t, router, "/add_document", map[string]any{
		"id":        1,
		"embedding": []float64{1, 0},
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Writes with the key succeed.
	rec = postJSON(t, router, "/add_document", map[string]any{
		"id":        1,
		"embedding": []float64{1, 0},
	}, "X-API-KEY", "secret-key")
	assert.Equal(t, http.StatusOK, rec.Code)

	// Search stays open.
	rec = postJSON(t, router, "/find_nearest", map[string]any{
		"query":  []float64{1, 0},
		"n":      1,
		"metric": "dot",
	})
	assert.Equal(t, http.StatusOK, rec.Code)

	// Deletes require the key too.
	req := httptest.NewRequest(http.MethodDelete, "/documents/1", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestDocumentLifecycle(t *testing.T) {
	router := newTestRouter(t)

	for i := 1; i <= 3; i++ {
		addDocument(t, router, int64(i), []float64{float64(i), 0}, fmt.Sprintf("doc-%d", i))
	}

	rec := postJSON(t, router, "/find_nearest", map[string]any{
		"query":  []float64{1, 0},
		"n":      10,
		"metric": "dot",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var matches []struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 3)
	assert.Equal(t, int64(3), matches[0].ID)

	req := httptest.NewRequest(http.MethodDelete, "/documents/3", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, req)
	require.Equal(t, http.StatusNoContent, recorder.Code)

	rec = postJSON(t, router, "/find_nearest", map[string]any{
		"query":  []float64{1, 0},
		"n":      10,
		"metric": "dot",
	})
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &matches))
	require.Len(t, matches, 2)
	assert.Equal(t, int64(2), matches[0].ID)
}
