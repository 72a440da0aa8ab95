package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vexdb/vexdb/domain/document"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
	}{
		{name: "not found", err: document.ErrNotFound, status: http.StatusNotFound},
		{name: "wrapped not found", err: fmt.Errorf("%w: id 4", document.ErrNotFound), status: http.StatusNotFound},
		{name: "dimension mismatch", err: document.ErrDimensionMismatch, status: http.StatusBadRequest},
		{name: "empty embedding", err: document.ErrEmptyEmbedding, status: http.StatusBadRequest},
		{name: "validation", err: document.ErrValidation, status: http.StatusBadRequest},
		{name: "capacity", err: document.ErrCapacity, status: http.StatusInsufficientStorage},
		{name: "unknown", err: errors.New("boom"), status: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _ := statusFor(tt.err)
			assert.Equal(t, tt.status, status)
		})
	}
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/documents/4", nil)

	WriteError(rec, req, fmt.Errorf("%w: id 4", document.ErrNotFound), nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "id 4")
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestWriteProtectDisabledPassesEverything(t *testing.T) {
	handler := WriteProtect(NewAuthConfig(nil))(okHandler())

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/add_document", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestWriteProtectBlanksDisable(t *testing.T) {
	config := NewAuthConfig([]string{"", ""})
	assert.False(t, config.Enabled())
}

func TestWriteProtectRequiresKeyOnMutations(t *testing.T) {
	handler := WriteProtect(NewAuthConfig([]string{"secret"}))(okHandler())

	tests := []struct {
		name   string
		method string
		key    string
		status int
	}{
		{name: "post without key", method: http.MethodPost, status: http.StatusUnauthorized},
		{name: "post with wrong key", method: http.MethodPost, key: "wrong", status: http.StatusUnauthorized},
		{name: "post with valid key", method: http.MethodPost, key: "secret", status: http.StatusOK},
		{name: "delete without key", method: http.MethodDelete, status: http.StatusUnauthorized},
		{name: "get passes without key", method: http.MethodGet, status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			if tt.key != "" {
				req.Header.Set("X-API-KEY", tt.key)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			require.Equal(t, tt.status, rec.Code)
		})
	}
}
