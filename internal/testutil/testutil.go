// Package testutil provides shared helpers for package tests.
package testutil

import (
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/eunoia-app/eunoia/internal/index"
	"github.com/eunoia-app/eunoia/internal/storage"
	"github.com/eunoia-app/eunoia/internal/store"
)

// Logger returns a logger that discards everything.
func Logger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// TestStore creates a store backed by a temp directory.
func TestStore(t *testing.T) *store.Store {
	t.Helper()
	fs, err := storage.NewFS(t.TempDir())
	if err != nil {
		t.Fatalf("storage: %v", err)
	}
	return store.New(fs, Logger())
}

// TestDB opens a throwaway index database.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	db, err := index.Open(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("index: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}
