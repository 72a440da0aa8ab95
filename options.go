package vexdb

import (
	"log/slog"

	"github.com/vexdb/vexdb/infrastructure/provider"
)

// storeType identifies the backing store.
type storeType int

const (
	storeMemory storeType = iota
	storeSQLite
	storePostgres
)

// clientConfig holds configuration for Client construction.
type clientConfig struct {
	store        storeType
	dbPath       string
	dbDSN        string
	maxDocuments int
	embedder     provider.Embedder
	logger       *slog.Logger
}

// Option configures the Client.
type Option func(*clientConfig)

// WithMemory keeps documents in memory only. This is the default.
func WithMemory() Option {
	return func(c *clientConfig) {
		c.store = storeMemory
	}
}

// WithSQLite persists documents to a SQLite database at the given path.
func WithSQLite(path string) Option {
	return func(c *clientConfig) {
		c.store = storeSQLite
		c.dbPath = path
	}
}

// WithPostgres persists documents to a PostgreSQL database.
func WithPostgres(dsn string) Option {
	return func(c *clientConfig) {
		c.store = storePostgres
		c.dbDSN = dsn
	}
}

// WithMaxDocuments caps the number of documents the store accepts.
// Zero means unbounded.
func WithMaxDocuments(n int) Option {
	return func(c *clientConfig) {
		c.maxDocuments = n
	}
}

// WithEmbedder sets the embedding provider used by EmbedAndAdd.
func WithEmbedder(e provider.Embedder) Option {
	return func(c *clientConfig) {
		c.embedder = e
	}
}

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *clientConfig) {
		c.logger = logger
	}
}
