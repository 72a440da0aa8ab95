package document

import "context"

// Store defines persistence operations for documents.
//
// Implementations enforce the dimensionality invariant: the first insert
// into an empty store fixes the dimension, every later insert must match
// it or fail with ErrDimensionMismatch, and the dimension is forgotten
// when the store becomes empty again.
//
// Put on an existing id atomically replaces the full record. A reader
// never observes a document mid-update: writers exclude each other and
// all in-flight reads.
type Store interface {
	// Put inserts or replaces a document. Rejects empty embeddings with
	// ErrEmptyEmbedding and wrong-length embeddings with
	// ErrDimensionMismatch before mutating anything.
	Put(ctx context.Context, doc Document) error

	// Get returns the document with the given id, or ErrNotFound.
	Get(ctx context.Context, id int64) (Document, error)

	// Remove deletes a document. Returns false (and no error) when the
	// id does not exist.
	Remove(ctx context.Context, id int64) (bool, error)

	// List returns a consistent snapshot of all documents.
	List(ctx context.Context) ([]Document, error)

	// Size returns the number of stored documents.
	Size(ctx context.Context) (int, error)

	// Dimension returns the established embedding dimensionality.
	// The second return is false while the store is empty.
	Dimension(ctx context.Context) (int, bool, error)

	// Reset removes all documents and forgets the dimensionality.
	Reset(ctx context.Context) error
}
