// Package journal persists the per-file sync state the socket API reports:
// journal records, last known file statuses and the download mode pinned on
// a path. The store is a single SQLite database opened in WAL mode; callers
// share one Store across goroutines.
package journal
