// Package persistence provides document store implementations: a pure
// in-memory store and a database-backed store over GORM.
package persistence

import (
	"context"
	"fmt"
	"sync"

	"github.com/vexdb/vexdb/domain/document"
)

// MemoryStore is the canonical in-memory document store.
//
// The RWMutex is the store's concurrency guard: mutations take the write
// lock and exclude each other and all in-flight reads, searches take the
// read lock and run concurrently with each other. A reader can never
// observe a document mid-replacement.
type MemoryStore struct {
	mu        sync.RWMutex
	docs      map[int64]document.Document
	dimension int
	maxDocs   int
}

// MemoryStoreOption configures a MemoryStore.
type MemoryStoreOption func(*MemoryStore)

// WithMaxDocuments caps the number of stored documents. Zero means
// unbounded.
func WithMaxDocuments(n int) MemoryStoreOption {
	return func(s *MemoryStore) { s.maxDocs = n }
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore(opts ...MemoryStoreOption) *MemoryStore {
	s := &MemoryStore{
		docs: make(map[int64]document.Document),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Put inserts or replaces a document. All validation happens before the
// map is touched, so a failed Put leaves prior state for the id intact.
func (s *MemoryStore) Put(_ context.Context, doc document.Document) error {
	if doc.Dimension() == 0 {
		return document.ErrEmptyEmbedding
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.docs) > 0 && doc.Dimension() != s.dimension {
		return fmt.Errorf("%w: store has %d dimensions, document %d has %d",
			document.ErrDimensionMismatch, s.dimension, doc.ID(), doc.Dimension())
	}

	if _, exists := s.docs[doc.ID()]; !exists && s.maxDocs > 0 && len(s.docs) >= s.maxDocs {
		return fmt.Errorf("%w: limit %d", document.ErrCapacity, s.maxDocs)
	}

	s.dimension = doc.Dimension()
	s.docs[doc.ID()] = doc
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id int64) (document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return document.Document{}, fmt.Errorf("%w: id %d", document.ErrNotFound, id)
	}
	return doc, nil
}

// Remove deletes a document, reporting whether it existed. Removing the
// last document forgets the store's dimensionality.
func (s *MemoryStore) Remove(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.docs[id]; !ok {
		return false, nil
	}
	delete(s.docs, id)
	if len(s.docs) == 0 {
		s.dimension = 0
	}
	return true, nil
}

// List returns a snapshot of all documents. The slice is freshly
// allocated; Document values are immutable, so the snapshot stays
// consistent while concurrent writes proceed.
func (s *MemoryStore) List(_ context.Context) ([]document.Document, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]document.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

// Size returns the number of stored documents.
func (s *MemoryStore) Size(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Dimension returns the established dimensionality; false while empty.
func (s *MemoryStore) Dimension(_ context.Context) (int, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return 0, false, nil
	}
	return s.dimension, true, nil
}

// Reset removes all documents and forgets the dimensionality.
func (s *MemoryStore) Reset(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.docs = make(map[int64]document.Document)
	s.dimension = 0
	return nil
}
