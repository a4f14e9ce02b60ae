// Package main hosts the shellsync CLI entrypoint and command graph.
//
// The Cobra-based command tree runs the daemon in the foreground and speaks
// the socket protocol the same way a file manager extension does, so status
// overlays, context menus and download modes can be inspected from a
// terminal. It centralizes configuration resolution and socket discovery so
// subcommands can focus on rendering replies.
package main
