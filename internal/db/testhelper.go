package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
)

// OpenTestHistory opens a migrated history database in t.TempDir() and
// registers cleanup.
func OpenTestHistory(t *testing.T) *sql.DB {
	t.Helper()

	db, err := OpenHistory(context.Background(), filepath.Join(t.TempDir(), "history.sqlite"))
	if err != nil {
		t.Fatalf("open test history: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
