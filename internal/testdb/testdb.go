// Package testdb provides an in-memory SQLite database for tests.
package testdb

import (
	"context"
	"testing"

	"github.com/helixml/salary/infrastructure/persistence"
	"github.com/helixml/salary/internal/database"
)

// New creates an in-memory SQLite database with all migrations applied.
// The database is closed when the test finishes.
func New(t *testing.T) database.Database {
	t.Helper()
	ctx := context.Background()
	db, err := database.NewDatabase(ctx, "sqlite:///:memory:")
	if err != nil {
		t.Fatalf("testdb.New: open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := persistence.AutoMigrate(ctx, db); err != nil {
		t.Fatalf("testdb.New: auto migrate: %v", err)
	}
	return db
}
