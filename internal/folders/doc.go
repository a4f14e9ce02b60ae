// Package folders owns the configured sync folders: the folder lookup and
// capability answers the socket API consults, each folder's aggregate sync
// status, and a Watcher that applies edits of the configuration file while
// the daemon runs.
package folders
