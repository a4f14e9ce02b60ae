// Package syncstate holds the read-only views of sync engine state that the
// shell integration consumes: folders, per-file statuses, journal records,
// server capabilities and direct editors.
//
// Values are snapshots. Providers hand out copies per request and the shell
// integration never mutates them.
package syncstate
