// Package ipc exposes the socket API to shell extensions over a Unix domain
// socket and ships the line client used by the CLI.
//
// The server owns socket lifecycle management: stale socket cleanup, the
// accept loop, one reader goroutine per connection and orderly shutdown. Each
// reader frames inbound bytes into NFC-normalized lines and hands them to the
// Handler in arrival order, so handlers for one connection never interleave.
// Writes happen on the listener actors owned by the Handler.
package ipc
