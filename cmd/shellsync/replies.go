package main

import (
	"strings"

	"shellsync/internal/wire"
)

type menuEntry struct {
	ID      string
	Enabled bool
	Label   string
}

// parseMenuItem reads MENU_ITEM:<id>:<flag>:<label>.
func parseMenuItem(line string) (menuEntry, bool) {
	cmd := wire.ParseCommand(line)
	if cmd.Verb != wire.VerbMenuItem {
		return menuEntry{}, false
	}
	parts := strings.SplitN(cmd.Argument, ":", 3)
	if len(parts) != 3 {
		return menuEntry{}, false
	}
	return menuEntry{ID: parts[0], Enabled: parts[1] == "", Label: parts[2]}, true
}

// parseString reads STRING:<key>:<value>.
func parseString(line string) (key, value string, ok bool) {
	cmd := wire.ParseCommand(line)
	if cmd.Verb != wire.VerbString {
		return "", "", false
	}
	key, value, ok = strings.Cut(cmd.Argument, ":")
	return key, value, ok
}

// parseStatusReply reads <VERB>:<code>:<path> and returns the code.
func parseStatusReply(line string, verb wire.Verb) (string, bool) {
	cmd := wire.ParseCommand(line)
	if cmd.Verb != verb {
		return "", false
	}
	code, _, _ := strings.Cut(cmd.Argument, ":")
	return code, code != ""
}

func statusKindFor(code string) statusKind {
	switch strings.TrimSuffix(code, "+SWM") {
	case "OK":
		return statusOK
	case "IGNORE":
		return statusWarn
	case "ERROR":
		return statusError
	default:
		return statusInfo
	}
}

func statusMessage(code string) string {
	base := strings.TrimSuffix(code, "+SWM")
	var msg string
	switch base {
	case "OK":
		msg = "Up to date"
	case "SYNC":
		msg = "Syncing"
	case "NEW":
		msg = "New"
	case "IGNORE":
		msg = "Ignored or warning"
	case "ERROR":
		msg = "Error"
	case "NOP":
		msg = "Not synced"
	default:
		msg = base
	}
	if strings.HasSuffix(code, "+SWM") {
		msg += " (shared with me)"
	}
	return msg
}
