package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path"

	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// SetSyncMode pins mode on rel. Descendants without a mode of their own
// inherit it.
func (s *Store) SetSyncMode(ctx context.Context, folder syncstate.Folder, rel string, mode wire.DownloadMode) error {
	return s.exec(ctx, `INSERT INTO sync_modes (folder, path, mode, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(folder, path) DO UPDATE SET mode = excluded.mode, updated_at = excluded.updated_at`,
		folder.Alias, normalizeRel(rel), mode.String(), now(),
	)
}

// SyncMode returns the mode pinned on rel or on its closest ancestor. Paths
// with no pinned ancestor are online only.
func (s *Store) SyncMode(ctx context.Context, folder syncstate.Folder, rel string) (wire.DownloadMode, error) {
	ctx = ensureContext(ctx)
	rel = normalizeRel(rel)
	for {
		var raw string
		err := s.db.QueryRowContext(ctx,
			"SELECT mode FROM sync_modes WHERE folder = ? AND path = ?", folder.Alias, rel,
		).Scan(&raw)
		switch {
		case err == nil:
			return wire.ParseDownloadMode(raw)
		case !errors.Is(err, sql.ErrNoRows):
			return wire.DownloadOnline, fmt.Errorf("read sync mode %s/%s: %w", folder.Alias, rel, err)
		}
		if rel == "" {
			return wire.DownloadOnline, nil
		}
		rel = parentRel(rel)
	}
}

// PinnedPath is one explicitly pinned path.
type PinnedPath struct {
	Path string
	Mode wire.DownloadMode
}

// SyncModePaths lists the paths of folder with an explicit mode, ordered by path.
func (s *Store) SyncModePaths(ctx context.Context, folder string) ([]PinnedPath, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT path, mode FROM sync_modes WHERE folder = ? ORDER BY path", folder)
	if err != nil {
		return nil, fmt.Errorf("list sync modes: %w", err)
	}
	defer rows.Close()

	var out []PinnedPath
	for rows.Next() {
		var p PinnedPath
		var raw string
		if err := rows.Scan(&p.Path, &raw); err != nil {
			return nil, fmt.Errorf("scan sync mode: %w", err)
		}
		if p.Mode, err = wire.ParseDownloadMode(raw); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func parentRel(rel string) string {
	dir := path.Dir(rel)
	if dir == "." || dir == "/" {
		return ""
	}
	return dir
}
