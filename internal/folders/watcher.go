package folders

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"shellsync/internal/config"
	"shellsync/internal/logging"
)

const defaultDebounce = 250 * time.Millisecond

// Watcher reloads the configuration file when it changes and publishes the
// resulting folder changes. The directory is watched rather than the file so
// editors that replace the file by rename are noticed.
type Watcher struct {
	path     string
	manager  *Manager
	observer Observer
	logger   *slog.Logger
	debounce time.Duration
}

// NewWatcher watches configPath on behalf of manager.
func NewWatcher(configPath string, manager *Manager, observer Observer, logger *slog.Logger) *Watcher {
	return &Watcher{
		path:     filepath.Clean(configPath),
		manager:  manager,
		observer: observer,
		logger:   logging.NewComponentLogger(logger, "folders-watcher"),
		debounce: defaultDebounce,
	}
}

// SetDebounce changes how long the watcher waits for writes to settle.
func (w *Watcher) SetDebounce(d time.Duration) {
	if d > 0 {
		w.debounce = d
	}
}

func (w *Watcher) String() string { return "folders-watcher" }

// Serve watches until ctx is cancelled.
func (w *Watcher) Serve(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create config watcher: %w", err)
	}
	defer fsw.Close()

	dir := filepath.Dir(w.path)
	if err := fsw.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	w.logger.Debug("watching configuration", logging.String(logging.FieldPath, w.path))

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return errors.New("config watcher closed")
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return errors.New("config watcher closed")
			}
			logging.WarnWithContext(w.logger, "config watcher error", "config_watch_error",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "restart the daemon if folder edits stop applying"),
				logging.String(logging.FieldImpact, "configuration changes may be missed"),
			)
		case <-fire:
			fire = nil
			_ = w.Reload(ctx)
		}
	}
}

// Reload reads the configuration file and publishes folder changes. An
// invalid or missing file keeps the current folders.
func (w *Watcher) Reload(ctx context.Context) error {
	cfg, _, exists, err := config.Load(w.path)
	if err == nil && !exists {
		err = fmt.Errorf("config file %s not found", w.path)
	}
	if err != nil {
		logging.WarnWithContext(w.logger, "config reload failed", "config_reload_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "fix the configuration file; the previous folders stay active"),
			logging.String(logging.FieldImpact, "folder changes not applied"),
		)
		return err
	}
	changes := w.manager.Apply(cfg)
	if changes.Empty() {
		w.logger.Debug("configuration reloaded; folders unchanged")
		return nil
	}
	Publish(ctx, w.observer, changes)
	w.logger.Info("folders reloaded",
		logging.String(logging.FieldEventType, "folders_reloaded"),
		logging.Int("added", len(changes.Added)),
		logging.Int("removed", len(changes.Removed)),
		logging.Int("updated", len(changes.Updated)),
	)
	return nil
}
