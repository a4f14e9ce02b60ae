package journal

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"shellsync/internal/syncstate"
)

// PutRecord inserts or replaces the record for rec.Path in folder.
func (s *Store) PutRecord(ctx context.Context, folder string, rec syncstate.Record) error {
	if folder == "" {
		return errors.New("put record: folder is required")
	}
	return s.exec(ctx, `INSERT INTO records
		(folder, path, file_id, numeric_file_id, remote_perm, is_directory, e2e_encrypted, e2e_mangled_name, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(folder, path) DO UPDATE SET
			file_id = excluded.file_id,
			numeric_file_id = excluded.numeric_file_id,
			remote_perm = excluded.remote_perm,
			is_directory = excluded.is_directory,
			e2e_encrypted = excluded.e2e_encrypted,
			e2e_mangled_name = excluded.e2e_mangled_name,
			updated_at = excluded.updated_at`,
		folder, normalizeRel(rec.Path), rec.FileID, rec.NumericFileID, rec.RemotePerm,
		boolToInt(rec.IsDirectory), boolToInt(rec.E2EEncrypted), rec.E2EMangledName, now(),
	)
}

// DeleteRecord removes the record and status of one path.
func (s *Store) DeleteRecord(ctx context.Context, folder, rel string) error {
	rel = normalizeRel(rel)
	if err := s.exec(ctx, "DELETE FROM records WHERE folder = ? AND path = ?", folder, rel); err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if err := s.exec(ctx, "DELETE FROM statuses WHERE folder = ? AND path = ?", folder, rel); err != nil {
		return fmt.Errorf("delete status: %w", err)
	}
	return nil
}

// Record returns the journal record of rel in folder. A missing record is
// reported as an invalid Record and no error.
func (s *Store) Record(ctx context.Context, folder syncstate.Folder, rel string) (syncstate.Record, error) {
	rel = normalizeRel(rel)
	row := s.db.QueryRowContext(ensureContext(ctx), `SELECT file_id, numeric_file_id, remote_perm, is_directory,
		e2e_encrypted, e2e_mangled_name FROM records WHERE folder = ? AND path = ?`, folder.Alias, rel)

	rec := syncstate.Record{Path: rel}
	var isDir, e2e int
	err := row.Scan(&rec.FileID, &rec.NumericFileID, &rec.RemotePerm, &isDir, &e2e, &rec.E2EMangledName)
	if errors.Is(err, sql.ErrNoRows) {
		return syncstate.Record{}, nil
	}
	if err != nil {
		return syncstate.Record{}, fmt.Errorf("read record %s/%s: %w", folder.Alias, rel, err)
	}
	rec.Valid = true
	rec.IsDirectory = isDir != 0
	rec.E2EEncrypted = e2e != 0
	return rec, nil
}

// SetStatus stores the last known status of rel in folder.
func (s *Store) SetStatus(ctx context.Context, folder, rel string, status syncstate.FileStatus) error {
	return s.exec(ctx, `INSERT INTO statuses (folder, path, status, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT(folder, path) DO UPDATE SET status = excluded.status, updated_at = excluded.updated_at`,
		folder, normalizeRel(rel), status.SocketString(), now(),
	)
}

// FileStatus returns the stored status of rel. Paths without a stored status
// report StatusNone.
func (s *Store) FileStatus(ctx context.Context, folder syncstate.Folder, rel string) (syncstate.FileStatus, error) {
	rel = normalizeRel(rel)
	var raw string
	err := s.db.QueryRowContext(ensureContext(ctx),
		"SELECT status FROM statuses WHERE folder = ? AND path = ?", folder.Alias, rel,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return syncstate.FileStatus{}, nil
	}
	if err != nil {
		return syncstate.FileStatus{}, fmt.Errorf("read status %s/%s: %w", folder.Alias, rel, err)
	}
	return syncstate.ParseFileStatus(raw), nil
}

// Status is FileStatus keyed by folder alias.
func (s *Store) Status(ctx context.Context, folder, rel string) (syncstate.FileStatus, error) {
	return s.FileStatus(ctx, syncstate.Folder{Alias: folder}, rel)
}

// StatusChange is a status row written after some stamp.
type StatusChange struct {
	Folder string
	Path   string
	Status syncstate.FileStatus
	Stamp  int64
}

// StatusChangesSince returns status rows written after stamp, oldest first,
// at most limit of them.
func (s *Store) StatusChangesSince(ctx context.Context, stamp int64, limit int) ([]StatusChange, error) {
	if limit <= 0 {
		limit = 500
	}
	rows, err := s.db.QueryContext(ensureContext(ctx),
		"SELECT folder, path, status, updated_at FROM statuses WHERE updated_at > ? ORDER BY updated_at, rowid LIMIT ?",
		stamp, limit)
	if err != nil {
		return nil, fmt.Errorf("list status changes: %w", err)
	}
	defer rows.Close()

	var out []StatusChange
	for rows.Next() {
		var c StatusChange
		var raw string
		if err := rows.Scan(&c.Folder, &c.Path, &raw, &c.Stamp); err != nil {
			return nil, fmt.Errorf("scan status change: %w", err)
		}
		c.Status = syncstate.ParseFileStatus(raw)
		out = append(out, c)
	}
	return out, rows.Err()
}

// LatestStamp returns the newest status stamp, or 0 for an empty journal.
func (s *Store) LatestStamp(ctx context.Context) (int64, error) {
	var stamp sql.NullInt64
	if err := s.db.QueryRowContext(ensureContext(ctx), "SELECT MAX(updated_at) FROM statuses").Scan(&stamp); err != nil {
		return 0, fmt.Errorf("read latest stamp: %w", err)
	}
	return stamp.Int64, nil
}

// FolderSummary counts the journal entries of one folder.
type FolderSummary struct {
	Folder  string
	Records int
	Pinned  int
}

// Summary returns per-folder counts ordered by folder alias.
func (s *Store) Summary(ctx context.Context) ([]FolderSummary, error) {
	rows, err := s.db.QueryContext(ensureContext(ctx), `SELECT folder,
			SUM(CASE WHEN kind = 'record' THEN 1 ELSE 0 END),
			SUM(CASE WHEN kind = 'mode' THEN 1 ELSE 0 END)
		FROM (
			SELECT folder, 'record' AS kind FROM records
			UNION ALL
			SELECT folder, 'mode' AS kind FROM sync_modes
		)
		GROUP BY folder ORDER BY folder`)
	if err != nil {
		return nil, fmt.Errorf("summarize journal: %w", err)
	}
	defer rows.Close()

	var out []FolderSummary
	for rows.Next() {
		var fs FolderSummary
		if err := rows.Scan(&fs.Folder, &fs.Records, &fs.Pinned); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		out = append(out, fs)
	}
	return out, rows.Err()
}
