package logging

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Archived daemon logs are named shellsyncd-<UTC stamp>.log. The stamp is
// the time the log was moved aside, which is when its run ended at the
// latest.
const (
	archivePrefix = "shellsyncd-"
	archiveSuffix = ".log"
	archiveLayout = "20060102T150405.000Z"
)

// ArchivePattern matches archived daemon logs but never the active one.
const ArchivePattern = archivePrefix + "*" + archiveSuffix

// ArchiveName returns the file name used for a log archived at t.
func ArchiveName(t time.Time) string {
	return archivePrefix + t.UTC().Format(archiveLayout) + archiveSuffix
}

// archiveTime recovers the archive stamp from name.
func archiveTime(name string) (time.Time, bool) {
	if !strings.HasPrefix(name, archivePrefix) || !strings.HasSuffix(name, archiveSuffix) {
		return time.Time{}, false
	}
	stamp := strings.TrimSuffix(strings.TrimPrefix(name, archivePrefix), archiveSuffix)
	t, err := time.Parse(archiveLayout, stamp)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// RotateActiveLog moves a non-empty LogFileName in dir aside under
// ArchiveName(now) and returns the archive path. Missing or empty logs are
// left alone and yield "".
func RotateActiveLog(dir string, now time.Time) (string, error) {
	if strings.TrimSpace(dir) == "" {
		return "", nil
	}
	current := filepath.Join(dir, LogFileName)
	info, err := os.Stat(current)
	if errors.Is(err, os.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("stat daemon log: %w", err)
	}
	if info.Size() == 0 {
		return "", nil
	}
	archived := filepath.Join(dir, ArchiveName(now))
	if err := os.Rename(current, archived); err != nil {
		return "", fmt.Errorf("archive daemon log: %w", err)
	}
	return archived, nil
}

// CleanupOldLogs removes archives in dir older than retentionDays and
// returns how many were pruned. Age comes from the archive stamp; files
// whose name carries no stamp fall back to their modification time. A
// retentionDays value of 0 disables pruning.
func CleanupOldLogs(logger *slog.Logger, dir string, retentionDays int, now time.Time) int {
	dir = strings.TrimSpace(dir)
	if retentionDays <= 0 || dir == "" {
		return 0
	}
	cutoff := now.AddDate(0, 0, -retentionDays)

	matches, err := filepath.Glob(filepath.Join(dir, ArchivePattern))
	if err != nil {
		return 0
	}
	pruned := 0
	for _, path := range matches {
		archivedAt, ok := archiveTime(filepath.Base(path))
		if !ok {
			info, err := os.Stat(path)
			if err != nil || info.IsDir() {
				continue
			}
			archivedAt = info.ModTime()
		}
		if !archivedAt.Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil {
			WarnWithContext(logger, "log retention remove failed; file remains", "log_retention_failed",
				String(FieldPath, path),
				Error(err),
				String(FieldErrorHint, "check ownership of logging.dir"),
				String(FieldImpact, "old daemon log stays on disk"),
			)
			continue
		}
		pruned++
		if logger != nil {
			logger.Debug("daemon log archive pruned",
				String(FieldPath, path),
				String(FieldEventType, "log_pruned"),
			)
		}
	}
	if pruned > 0 && logger != nil {
		logger.Info("old daemon logs pruned",
			String(FieldEventType, "log_retention"),
			Int("pruned", pruned),
			Int("retention_days", retentionDays),
		)
	}
	return pruned
}
