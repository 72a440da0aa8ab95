// Package provider implements embedding providers for turning text into
// vectors before insertion into the store.
package provider

import (
	"context"
	"errors"
	"fmt"
)

// Embedder turns texts into embedding vectors. Implementations must return
// one vector per input text, in input order.
type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float64, error)
	Close() error
}

// ErrNotConfigured indicates no embedding endpoint was configured.
var ErrNotConfigured = errors.New("embedding provider not configured")

// errVectorCountMismatch indicates the API returned a different number of
// vectors than texts requested. Transient upstream issues can produce
// partial responses behind a 200 status, so this is retryable.
var errVectorCountMismatch = errors.New("embedding response count mismatch")

// ProviderError carries the failing operation and upstream status code.
type ProviderError struct {
	Operation  string
	StatusCode int
	Message    string
	Err        error
}

func (e *ProviderError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("provider %s failed (status %d): %s", e.Operation, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("provider %s failed: %s", e.Operation, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}
