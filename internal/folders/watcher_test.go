package folders_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"shellsync/internal/folders"
	"shellsync/internal/logging"
	"shellsync/internal/testsupport"
)

func TestReloadKeepsFoldersOnInvalidConfig(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolder("docs", "/"))
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	m := folders.NewManager(cfg, logging.NewNop())
	obs := newRecordingObserver()
	w := folders.NewWatcher(path, m, obs, logging.NewNop())

	if err := w.Reload(context.Background()); err == nil {
		t.Fatal("expected error for missing config")
	}
	broken := *cfg
	broken.Account.URL = "ftp://nope"
	testsupport.WriteConfig(t, path, &broken)
	if err := w.Reload(context.Background()); err == nil {
		t.Fatal("expected validation error")
	}
	if _, ok := m.Folder("docs"); !ok {
		t.Fatal("folders dropped after failed reload")
	}
	if len(obs.all()) != 0 {
		t.Fatalf("observer called: %q", obs.all())
	}
}

func TestWatcherAppliesConfigEdits(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFolder("docs", "/"))
	path := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	testsupport.WriteConfig(t, path, cfg)

	m := folders.NewManager(cfg, logging.NewNop())
	obs := newRecordingObserver()
	w := folders.NewWatcher(path, m, obs, logging.NewNop())
	w.SetDebounce(20 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan error, 1)
	go func() { done <- w.Serve(ctx) }()

	next := testsupport.NewConfig(t, testsupport.WithFolder("photos", "/Photos"))
	next.Folders = append(cfg.Folders, next.Folders...)
	// Serve may not be watching yet; rewrite until the change lands.
	deadline := time.After(testsupport.DefaultWait)
	for {
		testsupport.WriteConfig(t, path, next)
		select {
		case <-obs.notify:
		case <-time.After(100 * time.Millisecond):
			continue
		case <-deadline:
			t.Fatal("config edit not applied")
		}
		break
	}

	if _, ok := m.Folder("photos"); !ok {
		t.Fatal("photos folder not added")
	}
	if got := strings.Join(obs.all(), ","); got != "register photos" {
		t.Fatalf("events = %q", got)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(testsupport.DefaultWait):
		t.Fatal("watcher did not stop")
	}
}
