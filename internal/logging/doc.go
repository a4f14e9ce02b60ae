// Package logging assembles the structured slog loggers used by the shellsync
// daemon and CLI.
//
// It owns the console and JSON handlers, centralizes level and output
// plumbing, and exposes context helpers so connection handling code can tag
// log lines with the connection and verb it is serving. A no-op logger is
// provided for tests and wiring code that cannot fail.
package logging
