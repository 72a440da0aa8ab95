// Package testdb provides a shared test database helper for fast,
// realistic testing against an in-memory SQLite database.
package testdb

import (
	"context"
	"testing"

	"github.com/vexdb/vexdb/internal/database"
)

// New creates an in-memory SQLite database, closed automatically when
// the test finishes. Stores run their own migrations on first use.
func New(t *testing.T) database.Database {
	t.Helper()
	db, err := database.New(context.Background(), "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
