// Package vexdb provides an embeddable in-memory vector database with
// optional durable storage.
//
// Documents are flat embedding vectors with a metadata string and optional
// text content. Nearest-neighbour search supports dot product, cosine
// similarity, and euclidean distance, with substring filtering on metadata.
//
// Basic usage:
//
//	client, err := vexdb.New(vexdb.WithSQLite("vexdb.sqlite"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	err = client.Documents.Add(ctx, 1, []float64{1, 0}, "animal: dog", "")
//
//	req, err := search.NewRequest([]float64{1, 0}, 5, search.MetricCosine, "dog")
//	matches, err := client.Search.FindNearest(ctx, req)
package vexdb

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vexdb/vexdb/application/service"
	"github.com/vexdb/vexdb/domain/document"
	"github.com/vexdb/vexdb/infrastructure/persistence"
	"github.com/vexdb/vexdb/infrastructure/provider"
	"github.com/vexdb/vexdb/internal/database"
)

// Client is the main entry point for the vexdb library.
//
// Access resources via struct fields:
//
//	client.Documents.Add(ctx, ...)
//	client.Search.FindNearest(ctx, req)
type Client struct {
	Documents *service.DocumentService
	Search    *service.SearchService

	store    document.Store
	embedder provider.Embedder
	db       *database.Database
	logger   *slog.Logger
}

// New creates a Client. Without options it keeps documents in memory.
func New(ctx context.Context, opts ...Option) (*Client, error) {
	cfg := &clientConfig{}
	for _, opt := range opts {
		opt(cfg)
	}

	logger := cfg.logger
	if logger == nil {
		logger = slog.Default()
	}

	var store document.Store
	var db *database.Database

	switch cfg.store {
	case storeMemory:
		var storeOpts []persistence.MemoryStoreOption
		if cfg.maxDocuments > 0 {
			storeOpts = append(storeOpts, persistence.WithMaxDocuments(cfg.maxDocuments))
		}
		store = persistence.NewMemoryStore(storeOpts...)
	case storeSQLite, storePostgres:
		url := "sqlite:///" + cfg.dbPath
		if cfg.store == storePostgres {
			url = cfg.dbDSN
		}
		d, err := database.New(ctx, url)
		if err != nil {
			return nil, fmt.Errorf("open database: %w", err)
		}
		db = &d
		var storeOpts []persistence.DatabaseStoreOption
		if cfg.maxDocuments > 0 {
			storeOpts = append(storeOpts, persistence.WithDatabaseMaxDocuments(cfg.maxDocuments))
		}
		store = persistence.NewDatabaseStore(d, storeOpts...)
	default:
		return nil, fmt.Errorf("unknown store type %d", cfg.store)
	}

	return &Client{
		Documents: service.NewDocumentService(store, logger),
		Search:    service.NewSearchService(store, logger),
		store:     store,
		embedder:  cfg.embedder,
		db:        db,
		logger:    logger,
	}, nil
}

// Store exposes the backing document store.
func (c *Client) Store() document.Store {
	return c.store
}

// EmbedAndAdd embeds the text with the configured provider and stores it as
// a document with the text as its content.
func (c *Client) EmbedAndAdd(ctx context.Context, id int64, text, metadata string) error {
	if c.embedder == nil {
		return provider.ErrNotConfigured
	}
	vectors, err := c.embedder.Embed(ctx, []string{text})
	if err != nil {
		return fmt.Errorf("embed text: %w", err)
	}
	return c.Documents.Add(ctx, id, vectors[0], metadata, text)
}

// Close releases database and provider resources.
func (c *Client) Close() error {
	var firstErr error
	if c.embedder != nil {
		if err := c.embedder.Close(); err != nil {
			firstErr = err
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
