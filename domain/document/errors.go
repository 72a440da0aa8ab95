package document

import "errors"

// Error taxonomy for store and search operations. All of these are
// detected before any mutation takes place; a failed operation leaves
// prior state untouched.
var (
	// ErrDimensionMismatch indicates an embedding or query vector whose
	// length disagrees with the store's established dimensionality.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrEmptyEmbedding indicates a zero-length embedding vector.
	ErrEmptyEmbedding = errors.New("empty embedding")

	// ErrValidation indicates a malformed request argument, such as a
	// non-positive result count or an unknown metric name.
	ErrValidation = errors.New("invalid argument")

	// ErrNotFound indicates the requested document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrCapacity indicates the store's configured document cap would be
	// exceeded by the insert.
	ErrCapacity = errors.New("document capacity exceeded")
)
