package shellapi_test

import "testing"

func TestDownloadModeRoundTrip(t *testing.T) {
	h := newHarness(t)
	conn := h.connect()

	steps := []struct {
		line string
		want string
	}{
		{"GET_DOWNLOAD_MODE:/root/a.txt", "GET_DOWNLOAD_MODE:ONLINE:/root/a.txt"},
		{"OFFLINE_DOWNLOAD_MODE:/root/a.txt", ""},
		{"GET_DOWNLOAD_MODE:/root/a.txt", "GET_DOWNLOAD_MODE:OFFLINE:/root/a.txt"},
		{"SET_DOWNLOAD_MODE:/root/a.txt|1", ""},
		{"GET_DOWNLOAD_MODE:/root/a.txt", "GET_DOWNLOAD_MODE:ONLINE:/root/a.txt"},
		{"SET_DOWNLOAD_MODE:/root/a|b.txt|offline", ""},
		{"GET_DOWNLOAD_MODE:/root/a|b.txt", "GET_DOWNLOAD_MODE:OFFLINE:/root/a|b.txt"},
		{"SET_DOWNLOAD_MODE:/root/a.txt", ""},
		{"SET_DOWNLOAD_MODE:/root/a.txt|maybe", ""},
		{"GET_DOWNLOAD_MODE:/root/a.txt", "GET_DOWNLOAD_MODE:ONLINE:/root/a.txt"},
		{"GET_DOWNLOAD_MODE:/elsewhere/a.txt", "GET_DOWNLOAD_MODE:NOP:/elsewhere/a.txt"},
	}
	for _, step := range steps {
		h.send(conn, step.line)
		if step.want == "" {
			continue
		}
		if got := conn.Next(t); got != step.want {
			t.Fatalf("%s: got %q want %q", step.line, got, step.want)
		}
	}
	h.quiet(conn)
}
