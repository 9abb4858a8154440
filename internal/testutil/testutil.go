// Package testutil provides shared test helpers for setting up thread
// bases and databases.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/watercoolerhq/watercooler/internal/index"
	"github.com/watercoolerhq/watercooler/internal/storage"
)

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "watercooler-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// TestBase creates a temporary threads base directory with a
// storage.Provider and the given repo directories.
func TestBase(t *testing.T, repoDirs ...string) (string, storage.Provider) {
	t.Helper()
	base := t.TempDir()
	for _, dir := range repoDirs {
		if err := os.MkdirAll(filepath.Join(base, dir), 0o755); err != nil {
			t.Fatal(err)
		}
	}
	store, err := storage.NewFS(base)
	if err != nil {
		t.Fatal(err)
	}
	return base, store
}
