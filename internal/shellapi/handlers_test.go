package shellapi_test

import (
	"testing"

	"shellsync/internal/syncstate"
)

func TestVersion(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()
	h.send(conn, "VERSION:")
	if got := conn.Next(t); got != "VERSION:3.1.0:1.1" {
		t.Fatalf("VERSION reply = %q", got)
	}
}

func TestRetrieveStatus(t *testing.T) {
	h := newHarness(t)
	h.journal.PutSynced("root", "a.txt", "7")
	h.journal.Put("root", "sub", syncstate.Record{Valid: true, IsDirectory: true},
		syncstate.FileStatus{Tag: syncstate.StatusSync, Shared: true})
	conn := h.connect()

	tests := []struct {
		line string
		want string
	}{
		{"RETRIEVE_FILE_STATUS:/root/a.txt", "STATUS:OK:/root/a.txt"},
		{"RETRIEVE_FOLDER_STATUS:/root/sub/", "STATUS:SYNC+SWM:/root/sub/"},
		{"RETRIEVE_FILE_STATUS:/root/./a.txt", "STATUS:OK:/root/./a.txt"},
		{"RETRIEVE_FILE_STATUS:/elsewhere/a.txt", "STATUS:NOP:/elsewhere/a.txt"},
		{"RETRIEVE_FILE_STATUS:", "STATUS:NOP"},
	}
	for _, tt := range tests {
		h.send(conn, tt.line)
		if got := conn.Next(t); got != tt.want {
			t.Fatalf("%s: got %q want %q", tt.line, got, tt.want)
		}
	}
	h.quiet(conn)
}

func TestGetStrings(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()

	h.send(conn, "GET_STRINGS:")
	got := conn.NextN(t, 6)
	want := []string{
		"GET_STRINGS:BEGIN",
		"STRING:SHARE_MENU_TITLE:Share options",
		"STRING:CONTEXT_MENU_TITLE:Share via Cloud",
		"STRING:COPY_PRIVATE_LINK_MENU_TITLE:Copy private link to clipboard",
		"STRING:EMAIL_PRIVATE_LINK_MENU_TITLE:Send private link by email...",
		"GET_STRINGS:END",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q want %q", i, got[i], want[i])
		}
	}

	h.send(conn, "GET_STRINGS:CONTEXT_MENU_TITLE")
	got = conn.NextN(t, 3)
	if got[1] != "STRING:CONTEXT_MENU_TITLE:Share via Cloud" || got[2] != "GET_STRINGS:END" {
		t.Fatalf("filtered strings = %q", got)
	}
	h.quiet(conn)
}

func TestShareMenuTitle(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()
	h.send(conn, "SHARE_MENU_TITLE:")
	got := conn.NextN(t, 4)
	want := []string{
		"SHARE_MENU_TITLE:Share with Cloud",
		"STREAM_SUBMENU_TITLE:Virtual Drive",
		"STREAM_OFFLINE_ITEM_TITLE:Available offline",
		"STREAM_ONLINE_ITEM_TITLE:Online only",
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("line %d = %q want %q", i, got[i], want[i])
		}
	}
}

func TestUnknownVerbIsIgnored(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()
	h.send(conn, "FROBNICATE:/root/a.txt")
	h.send(conn, "")
	h.quiet(conn)
	if h.api.FindListener(conn) == nil {
		t.Fatal("unknown verb must not drop the connection")
	}
}

func TestDesktopActions(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()
	h.send(conn, "COPYASPATH:/root/docs/a.txt")
	h.send(conn, "OPEN:/root/docs")
	h.send(conn, "OPENNEWWINDOW:/root/docs/")
	h.send(conn, "OPEN:")
	h.api.Wait()

	got := h.desktop.Snapshot()
	if len(got.Clipboard) != 1 || got.Clipboard[0] != "/root/docs/a.txt" {
		t.Fatalf("clipboard = %q", got.Clipboard)
	}
	if len(got.Paths) != 2 {
		t.Fatalf("opened paths = %q", got.Paths)
	}
	seen := map[string]bool{got.Paths[0]: true, got.Paths[1]: true}
	if !seen["/root/docs"] || !seen["/root/docs (new window)"] {
		t.Fatalf("opened paths = %q", got.Paths)
	}
	h.quiet(conn)
}
