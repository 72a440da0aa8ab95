// Package service provides application layer services that orchestrate
// domain operations.
package service

import (
	"context"
	"log/slog"

	"github.com/vexdb/vexdb/domain/document"
)

// DocumentService exposes document lifecycle operations over a store.
type DocumentService struct {
	store  document.Store
	logger *slog.Logger
}

// NewDocumentService creates a DocumentService.
func NewDocumentService(store document.Store, logger *slog.Logger) *DocumentService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DocumentService{
		store:  store,
		logger: logger,
	}
}

// Add inserts or replaces a document. Store errors (empty embedding,
// dimension mismatch, capacity) surface unchanged so callers can map
// them by kind.
func (s *DocumentService) Add(ctx context.Context, id int64, embedding []float64, metadata, content string) error {
	doc := document.New(id, embedding, metadata, content)
	if err := s.store.Put(ctx, doc); err != nil {
		return err
	}
	s.logger.DebugContext(ctx, "document stored",
		slog.Int64("id", id),
		slog.Int("dimension", doc.Dimension()),
	)
	return nil
}

// Get returns a document by id, or ErrNotFound.
func (s *DocumentService) Get(ctx context.Context, id int64) (document.Document, error) {
	return s.store.Get(ctx, id)
}

// Remove deletes a document, reporting whether it existed.
func (s *DocumentService) Remove(ctx context.Context, id int64) (bool, error) {
	removed, err := s.store.Remove(ctx, id)
	if err != nil {
		return false, err
	}
	if removed {
		s.logger.DebugContext(ctx, "document removed", slog.Int64("id", id))
	}
	return removed, nil
}

// Stats describes the store's current shape.
type Stats struct {
	size      int
	dimension int
	hasDim    bool
}

// Size returns the number of stored documents.
func (s Stats) Size() int { return s.size }

// Dimension returns the store dimensionality; the second return is
// false while the store is empty.
func (s Stats) Dimension() (int, bool) { return s.dimension, s.hasDim }

// Stats returns the store's current size and dimensionality.
func (s *DocumentService) Stats(ctx context.Context) (Stats, error) {
	size, err := s.store.Size(ctx)
	if err != nil {
		return Stats{}, err
	}
	dim, ok, err := s.store.Dimension(ctx)
	if err != nil {
		return Stats{}, err
	}
	return Stats{size: size, dimension: dim, hasDim: ok}, nil
}

// Reset clears the store.
func (s *DocumentService) Reset(ctx context.Context) error {
	if err := s.store.Reset(ctx); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "store reset")
	return nil
}
