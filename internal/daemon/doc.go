// Package daemon coordinates the long-running shellsync process.
//
// It wires configuration, the sync journal, folder management, the sharing
// client and desktop side effects into the socket API, binds the socket
// server, and enforces single-instance execution with a flock beside the
// socket. A bind failure leaves the daemon running in degraded mode without
// shell integration.
//
// Keep orchestration logic here: protocol handling lives in shellapi and
// transport in ipc, while the daemon focuses on startup, shutdown, and the
// status feed that turns journal writes into socket pushes.
package daemon
