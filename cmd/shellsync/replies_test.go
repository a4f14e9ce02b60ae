package main

import (
	"testing"

	"shellsync/internal/wire"
)

func TestParseMenuItem(t *testing.T) {
	tests := []struct {
		line string
		want menuEntry
		ok   bool
	}{
		{"MENU_ITEM:SHARE::Share via Cloud", menuEntry{ID: "SHARE", Enabled: true, Label: "Share via Cloud"}, true},
		{"MENU_ITEM:EDIT:d:Edit: draft", menuEntry{ID: "EDIT", Label: "Edit: draft"}, true},
		{"MENU_ITEM:BROKEN", menuEntry{}, false},
		{"GET_MENU_ITEMS:BEGIN", menuEntry{}, false},
	}
	for _, tt := range tests {
		got, ok := parseMenuItem(tt.line)
		if ok != tt.ok || got != tt.want {
			t.Fatalf("parseMenuItem(%q) = %+v, %v want %+v, %v", tt.line, got, ok, tt.want, tt.ok)
		}
	}
}

func TestParseString(t *testing.T) {
	key, value, ok := parseString("STRING:CONTEXT_MENU_TITLE:Cloud: files")
	if !ok || key != "CONTEXT_MENU_TITLE" || value != "Cloud: files" {
		t.Fatalf("parseString = %q %q %v", key, value, ok)
	}
	if _, _, ok := parseString("STATUS:OK:/x"); ok {
		t.Fatal("expected non-STRING line to be rejected")
	}
}

func TestParseStatusReply(t *testing.T) {
	code, ok := parseStatusReply("STATUS:SYNC+SWM:/a:b", wire.VerbStatus)
	if !ok || code != "SYNC+SWM" {
		t.Fatalf("parseStatusReply = %q %v", code, ok)
	}
	if _, ok := parseStatusReply("GET_DOWNLOAD_MODE:ONLINE:/a", wire.VerbStatus); ok {
		t.Fatal("expected verb mismatch")
	}
	if statusKindFor("ERROR") != statusError || statusKindFor("OK+SWM") != statusOK || statusKindFor("NOP") != statusInfo {
		t.Fatal("unexpected status kinds")
	}
	if got := statusMessage("OK+SWM"); got != "Up to date (shared with me)" {
		t.Fatalf("statusMessage = %q", got)
	}
}
