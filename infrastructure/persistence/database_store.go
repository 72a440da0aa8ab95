package persistence

import (
	"context"
	"fmt"
	"sync"

	"gorm.io/gorm/clause"

	"github.com/vexdb/vexdb/domain/document"
	"github.com/vexdb/vexdb/internal/database"
)

// DatabaseStore is a document store backed by SQLite or PostgreSQL.
//
// Writes go through the database and an in-memory mirror inside one
// critical section, so ranking stays a brute-force scan over RAM while
// documents survive restarts. The mirror is loaded once on first use.
//
// The same single-writer/multi-reader discipline as MemoryStore applies;
// the database is never read on the query path after initialization.
type DatabaseStore struct {
	db      database.Database
	mu      sync.RWMutex
	docs    map[int64]document.Document
	dim     int
	maxDocs int
	loaded  bool
}

// DatabaseStoreOption configures a DatabaseStore.
type DatabaseStoreOption func(*DatabaseStore)

// WithDatabaseMaxDocuments caps the number of stored documents. Zero
// means unbounded.
func WithDatabaseMaxDocuments(n int) DatabaseStoreOption {
	return func(s *DatabaseStore) { s.maxDocs = n }
}

// NewDatabaseStore creates a DatabaseStore over an open database.
func NewDatabaseStore(db database.Database, opts ...DatabaseStoreOption) *DatabaseStore {
	s := &DatabaseStore{
		db:   db,
		docs: make(map[int64]document.Document),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// initialize migrates the schema and loads existing rows into the
// mirror. Callers hold the write lock.
func (s *DatabaseStore) initialize(ctx context.Context) error {
	if s.loaded {
		return nil
	}

	if err := s.db.GORM().AutoMigrate(&DocumentModel{}); err != nil {
		return fmt.Errorf("migrate documents table: %w", err)
	}

	var models []DocumentModel
	if err := s.db.Session(ctx).Find(&models).Error; err != nil {
		return fmt.Errorf("load documents: %w", err)
	}
	for _, m := range models {
		doc := toDomain(m)
		s.docs[doc.ID()] = doc
		s.dim = doc.Dimension()
	}

	s.loaded = true
	return nil
}

// ensureLoaded runs initialization under the write lock when needed.
func (s *DatabaseStore) ensureLoaded(ctx context.Context) error {
	s.mu.RLock()
	loaded := s.loaded
	s.mu.RUnlock()
	if loaded {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialize(ctx)
}

// Put inserts or replaces a document, writing through to the database.
// Validation happens before the database or mirror is touched.
func (s *DatabaseStore) Put(ctx context.Context, doc document.Document) error {
	if doc.Dimension() == 0 {
		return document.ErrEmptyEmbedding
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		return err
	}

	if len(s.docs) > 0 && doc.Dimension() != s.dim {
		return fmt.Errorf("%w: store has %d dimensions, document %d has %d",
			document.ErrDimensionMismatch, s.dim, doc.ID(), doc.Dimension())
	}

	if _, exists := s.docs[doc.ID()]; !exists && s.maxDocs > 0 && len(s.docs) >= s.maxDocs {
		return fmt.Errorf("%w: limit %d", document.ErrCapacity, s.maxDocs)
	}

	model := toModel(doc)
	err := s.db.Session(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(&model).Error
	if err != nil {
		return fmt.Errorf("save document %d: %w", doc.ID(), err)
	}

	s.dim = doc.Dimension()
	s.docs[doc.ID()] = doc
	return nil
}

// Get returns the document with the given id, or ErrNotFound.
func (s *DatabaseStore) Get(ctx context.Context, id int64) (document.Document, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return document.Document{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.docs[id]
	if !ok {
		return document.Document{}, fmt.Errorf("%w: id %d", document.ErrNotFound, id)
	}
	return doc, nil
}

// Remove deletes a document from the database and the mirror.
func (s *DatabaseStore) Remove(ctx context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		return false, err
	}

	if _, ok := s.docs[id]; !ok {
		return false, nil
	}

	if err := s.db.Session(ctx).Delete(&DocumentModel{}, id).Error; err != nil {
		return false, fmt.Errorf("delete document %d: %w", id, err)
	}

	delete(s.docs, id)
	if len(s.docs) == 0 {
		s.dim = 0
	}
	return true, nil
}

// List returns a snapshot of all documents from the mirror.
func (s *DatabaseStore) List(ctx context.Context) ([]document.Document, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	docs := make([]document.Document, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

// Size returns the number of stored documents.
func (s *DatabaseStore) Size(ctx context.Context) (int, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.docs), nil
}

// Dimension returns the established dimensionality; false while empty.
func (s *DatabaseStore) Dimension(ctx context.Context) (int, bool, error) {
	if err := s.ensureLoaded(ctx); err != nil {
		return 0, false, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.docs) == 0 {
		return 0, false, nil
	}
	return s.dim, true, nil
}

// Reset removes all documents and forgets the dimensionality.
func (s *DatabaseStore) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.initialize(ctx); err != nil {
		return err
	}

	if err := s.db.Session(ctx).Where("1 = 1").Delete(&DocumentModel{}).Error; err != nil {
		return fmt.Errorf("reset documents: %w", err)
	}

	s.docs = make(map[int64]document.Document)
	s.dim = 0
	return nil
}
