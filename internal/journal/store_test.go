package journal_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"shellsync/internal/journal"
	"shellsync/internal/syncstate"
	"shellsync/internal/testsupport"
	"shellsync/internal/wire"
)

var docs = syncstate.Folder{Alias: "docs", Path: "/home/alice/Docs", RemotePath: "/"}

func TestOpenCreatesSchema(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)

	if store.Path() != cfg.Journal.Path {
		t.Fatalf("Path = %q want %q", store.Path(), cfg.Journal.Path)
	}
	if err := store.Check(context.Background()); err != nil {
		t.Fatalf("Check: %v", err)
	}
}

func TestReopenKeepsData(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	testsupport.PutSyncedFile(t, store, "docs", "a.txt", "11")
	if err := store.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	store = testsupport.MustOpenJournal(t, cfg)
	rec, err := store.Record(context.Background(), docs, "a.txt")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !rec.Valid || rec.FileID != "11" {
		t.Fatalf("record after reopen = %+v", rec)
	}
}

func TestSchemaMismatchIsRejected(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store, err := journal.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	store.Close()

	raw := testsupport.OpenRawSQLite(t, cfg.Journal.Path)
	if _, err := raw.Exec("PRAGMA user_version = 99"); err != nil {
		t.Fatalf("update version: %v", err)
	}
	raw.Close()

	if _, err := journal.Open(cfg); !errors.Is(err, journal.ErrSchemaMismatch) {
		t.Fatalf("Open error = %v, want ErrSchemaMismatch", err)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	missing, err := store.Record(ctx, docs, "nope.txt")
	if err != nil || missing.Valid {
		t.Fatalf("missing record = %+v, %v", missing, err)
	}

	in := syncstate.Record{
		Path:           "/sub/a.txt",
		FileID:         "00000042oc",
		NumericFileID:  42,
		RemotePerm:     "RDNVW",
		E2EMangledName: "abc",
	}
	if err := store.PutRecord(ctx, "docs", in); err != nil {
		t.Fatalf("PutRecord: %v", err)
	}
	got, err := store.Record(ctx, docs, "sub/a.txt/")
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if !got.Valid || got.Path != "sub/a.txt" || got.NumericFileID != 42 || got.RemotePerm != "RDNVW" || !got.IsE2E() {
		t.Fatalf("record = %+v", got)
	}

	in.RemotePerm = "D"
	if err := store.PutRecord(ctx, "docs", in); err != nil {
		t.Fatalf("PutRecord update: %v", err)
	}
	got, _ = store.Record(ctx, docs, "sub/a.txt")
	if got.CanReshare() {
		t.Fatal("updated permissions not stored")
	}

	if err := store.DeleteRecord(ctx, "docs", "sub/a.txt"); err != nil {
		t.Fatalf("DeleteRecord: %v", err)
	}
	got, _ = store.Record(ctx, docs, "sub/a.txt")
	if got.Valid {
		t.Fatal("record still present after delete")
	}
	if err := store.PutRecord(ctx, "", in); err == nil {
		t.Fatal("expected error without folder")
	}
}

func TestFileStatus(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	status, err := store.FileStatus(ctx, docs, "a.txt")
	if err != nil || status.Tag != syncstate.StatusNone {
		t.Fatalf("default status = %+v, %v", status, err)
	}
	want := syncstate.FileStatus{Tag: syncstate.StatusSync, Shared: true}
	if err := store.SetStatus(ctx, "docs", "a.txt", want); err != nil {
		t.Fatalf("SetStatus: %v", err)
	}
	status, err = store.FileStatus(ctx, docs, "a.txt")
	if err != nil || status != want {
		t.Fatalf("status = %+v, %v", status, err)
	}
	other := syncstate.Folder{Alias: "other"}
	if status, _ := store.FileStatus(ctx, other, "a.txt"); status.Tag != syncstate.StatusNone {
		t.Fatal("statuses leaked across folders")
	}
}

func TestSyncModeInheritsFromAncestors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	mode, err := store.SyncMode(ctx, docs, "a/b/c.txt")
	if err != nil || mode != wire.DownloadOnline {
		t.Fatalf("default mode = %v, %v", mode, err)
	}
	if err := store.SetSyncMode(ctx, docs, "a", wire.DownloadOffline); err != nil {
		t.Fatalf("SetSyncMode: %v", err)
	}
	if err := store.SetSyncMode(ctx, docs, "a/b/keep-online.txt", wire.DownloadOnline); err != nil {
		t.Fatalf("SetSyncMode: %v", err)
	}

	tests := map[string]wire.DownloadMode{
		"a":                   wire.DownloadOffline,
		"a/b/c.txt":           wire.DownloadOffline,
		"a/b/keep-online.txt": wire.DownloadOnline,
		"b.txt":               wire.DownloadOnline,
	}
	for rel, want := range tests {
		got, err := store.SyncMode(ctx, docs, rel)
		if err != nil || got != want {
			t.Fatalf("SyncMode(%q) = %v, %v want %v", rel, got, err, want)
		}
	}

	pinned, err := store.SyncModePaths(ctx, "docs")
	if err != nil {
		t.Fatalf("SyncModePaths: %v", err)
	}
	if len(pinned) != 2 || pinned[0].Path != "a" || pinned[1].Mode != wire.DownloadOnline {
		t.Fatalf("pinned = %+v", pinned)
	}
}

func TestSummary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	testsupport.PutSyncedFile(t, store, "docs", "a.txt", "1")
	testsupport.PutSyncedFile(t, store, "docs", "b.txt", "2")
	testsupport.PutSyncedFile(t, store, "music", "x.flac", "3")
	if err := store.SetSyncMode(ctx, docs, "", wire.DownloadOffline); err != nil {
		t.Fatal(err)
	}

	summary, err := store.Summary(ctx)
	if err != nil {
		t.Fatalf("Summary: %v", err)
	}
	if len(summary) != 2 {
		t.Fatalf("summary = %+v", summary)
	}
	if summary[0] != (journal.FolderSummary{Folder: "docs", Records: 2, Pinned: 1}) {
		t.Fatalf("docs summary = %+v", summary[0])
	}
	if summary[1] != (journal.FolderSummary{Folder: "music", Records: 1}) {
		t.Fatalf("music summary = %+v", summary[1])
	}
	if filepath.Base(store.Path()) != "journal.db" {
		t.Fatalf("unexpected journal file %q", store.Path())
	}
}

func TestStatusChangesSince(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenJournal(t, cfg)
	ctx := context.Background()

	start, err := store.LatestStamp(ctx)
	if err != nil || start != 0 {
		t.Fatalf("LatestStamp on empty journal = %d, %v", start, err)
	}
	if err := store.SetStatus(ctx, "docs", "a.txt", syncstate.FileStatus{Tag: syncstate.StatusSync}); err != nil {
		t.Fatal(err)
	}
	if err := store.SetStatus(ctx, "docs", "b.txt", syncstate.FileStatus{Tag: syncstate.StatusError}); err != nil {
		t.Fatal(err)
	}

	changes, err := store.StatusChangesSince(ctx, start, 0)
	if err != nil {
		t.Fatalf("StatusChangesSince: %v", err)
	}
	if len(changes) != 2 || changes[0].Path != "a.txt" || changes[1].Status.Tag != syncstate.StatusError {
		t.Fatalf("changes = %+v", changes)
	}

	latest, err := store.LatestStamp(ctx)
	if err != nil || latest != changes[1].Stamp {
		t.Fatalf("LatestStamp = %d, %v want %d", latest, err, changes[1].Stamp)
	}
	changes, err = store.StatusChangesSince(ctx, latest, 10)
	if err != nil || len(changes) != 0 {
		t.Fatalf("changes after latest = %+v, %v", changes, err)
	}

	status, err := store.Status(ctx, "docs", "b.txt")
	if err != nil || status.Tag != syncstate.StatusError {
		t.Fatalf("Status = %+v, %v", status, err)
	}
}
