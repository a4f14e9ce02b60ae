package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"path"
	"time"

	"shellsync/internal/folders"
	"shellsync/internal/journal"
	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
)

const defaultFeedInterval = 500 * time.Millisecond

// Publisher pushes status changes to connected shell extensions.
type Publisher interface {
	NotifyFileStatusChanged(localPath string, status syncstate.FileStatus)
	NotifyFolderStatusChanged(ctx context.Context, folder syncstate.Folder) bool
}

// StatusFeed tails status rows written to the journal by the sync engine.
// File rows become filtered STATUS pushes; a folder's root row updates the
// folder's aggregate status.
type StatusFeed struct {
	store     *journal.Store
	folders   *folders.Manager
	publisher Publisher
	logger    *slog.Logger
	interval  time.Duration
	stamp     int64
}

// NewStatusFeed builds a feed publishing to publisher.
func NewStatusFeed(store *journal.Store, manager *folders.Manager, publisher Publisher, logger *slog.Logger) *StatusFeed {
	return &StatusFeed{
		store:     store,
		folders:   manager,
		publisher: publisher,
		logger:    logging.NewComponentLogger(logger, "status-feed"),
		interval:  defaultFeedInterval,
	}
}

// SetInterval changes the polling interval.
func (f *StatusFeed) SetInterval(d time.Duration) {
	if d > 0 {
		f.interval = d
	}
}

func (f *StatusFeed) String() string { return "status-feed" }

// Prime skips rows written before the daemon started.
func (f *StatusFeed) Prime(ctx context.Context) error {
	stamp, err := f.store.LatestStamp(ctx)
	if err != nil {
		return err
	}
	f.stamp = stamp
	return nil
}

// Serve polls until ctx is cancelled.
func (f *StatusFeed) Serve(ctx context.Context) error {
	ticker := time.NewTicker(f.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			if _, err := f.Poll(ctx); err != nil {
				logging.WarnWithContext(f.logger, "status feed poll failed", "status_feed_failed",
					logging.Error(err),
					logging.String(logging.FieldImpact, "file managers may show stale sync status"),
					logging.String(logging.FieldErrorHint, "check journal database access"),
				)
			}
		}
	}
}

// Poll publishes every status row written since the last poll and returns
// how many rows were consumed.
func (f *StatusFeed) Poll(ctx context.Context) (int, error) {
	changes, err := f.store.StatusChangesSince(ctx, f.stamp, 0)
	if err != nil {
		return 0, fmt.Errorf("read status changes: %w", err)
	}
	for _, change := range changes {
		f.stamp = change.Stamp
		folder, ok := f.folders.Folder(change.Folder)
		if !ok {
			continue
		}
		if change.Path == "" {
			updated, changed := f.folders.SetStatus(folder.Alias, folders.StatusFromRoot(change.Status))
			if changed {
				f.publisher.NotifyFolderStatusChanged(ctx, updated)
			}
			continue
		}
		f.publisher.NotifyFileStatusChanged(path.Join(folder.Path, change.Path), change.Status)
	}
	if len(changes) > 0 {
		f.logger.Debug("status changes published", logging.Int("count", len(changes)))
	}
	return len(changes), nil
}
