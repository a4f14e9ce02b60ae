// Package shellapi serves file manager shell extensions connected over the
// local socket.
//
// Each connection gets a Listener: a goroutine that owns the connection's
// write side and its interest filter, fed through a bounded mailbox. The API
// keeps the registry of live listeners, dispatches inbound command lines
// through a fixed command table, and lets the host push status changes.
// Directory-scoped STATUS pushes only reach listeners whose filter may
// contain the directory, so status churn does not cost one write per client.
//
// Sync state comes from the provider interfaces in providers.go; this
// package never owns folders, journal records or network sessions.
package shellapi
