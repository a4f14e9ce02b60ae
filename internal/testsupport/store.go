package testsupport

import (
	"context"
	"database/sql"
	"testing"

	_ "modernc.org/sqlite"

	"shellsync/internal/config"
	"shellsync/internal/journal"
	"shellsync/internal/syncstate"
)

// MustOpenJournal opens a journal.Store for tests and registers cleanup.
func MustOpenJournal(t testing.TB, cfg *config.Config) *journal.Store {
	t.Helper()

	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("journal.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// PutSyncedFile stores a valid record with an up to date status.
func PutSyncedFile(t testing.TB, store *journal.Store, folder, relPath, fileID string) {
	t.Helper()

	ctx := context.Background()
	rec := syncstate.Record{Valid: true, Path: relPath, FileID: fileID}
	if err := store.PutRecord(ctx, folder, rec); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	if err := store.SetStatus(ctx, folder, relPath, syncstate.FileStatus{Tag: syncstate.StatusUpToDate}); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
}

// OpenRawSQLite opens a database file directly, bypassing the journal schema.
func OpenRawSQLite(t testing.TB, path string) *sql.DB {
	t.Helper()

	db, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	return db
}
