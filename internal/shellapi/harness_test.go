package shellapi_test

import (
	"context"
	"sync"
	"testing"

	"shellsync/internal/logging"
	"shellsync/internal/shellapi"
	"shellsync/internal/syncstate"
	"shellsync/internal/testsupport"
)

const rootPath = "/root"

type shareRecorder struct {
	mu       sync.Mutex
	requests []shellapi.ShareRequest
}

func (s *shareRecorder) ShowShareDialog(_ context.Context, req shellapi.ShareRequest) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests = append(s.requests, req)
	return nil
}

func (s *shareRecorder) all() []shellapi.ShareRequest {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]shellapi.ShareRequest(nil), s.requests...)
}

type harness struct {
	t       *testing.T
	api     *shellapi.API
	folders *testsupport.Folders
	journal *testsupport.Journal
	links   *testsupport.Links
	editors *testsupport.Editors
	desktop *testsupport.Desktop
	errs    *testsupport.Errors
	shares  *shareRecorder
}

type harnessOption func(*shellapi.Options, *shellapi.Providers)

func withCapabilities(caps syncstate.Capabilities) harnessOption {
	return func(_ *shellapi.Options, p *shellapi.Providers) {
		p.Capabilities = testsupport.StaticCapabilities{Caps: caps}
	}
}

func withMailbox(size int) harnessOption {
	return func(o *shellapi.Options, _ *shellapi.Providers) {
		o.MailboxSize = size
	}
}

func rootFolder() syncstate.Folder {
	return syncstate.Folder{Alias: "root", Path: rootPath, RemotePath: "/", Connected: true, Status: syncstate.FolderSuccess}
}

func newHarness(t *testing.T, opts ...harnessOption) *harness {
	t.Helper()
	h := &harness{
		t:       t,
		folders: testsupport.NewFolders(rootFolder()),
		journal: testsupport.NewJournal(),
		links:   &testsupport.Links{Public: "https://cloud.example.com/s/abc", Private: "https://cloud.example.com/index.php/f/42"},
		editors: &testsupport.Editors{
			Editors: []syncstate.Editor{{ID: "text", Name: "Text", MimeTypes: []string{"text/markdown"}}},
			URL:     "https://cloud.example.com/edit/1",
		},
		desktop: &testsupport.Desktop{},
		errs:    &testsupport.Errors{},
		shares:  &shareRecorder{},
	}
	options := shellapi.Options{AppName: "Cloud", AppVersion: "3.1.0", MailboxSize: 64, Logger: logging.NewNop()}
	providers := shellapi.Providers{
		Folders:       h.folders,
		Journal:       h.journal,
		Status:        h.journal,
		Capabilities:  testsupport.AllCapabilities(),
		Links:         h.links,
		Editors:       h.editors,
		ShareUI:       h.shares,
		Desktop:       h.desktop,
		Errors:        h.errs,
		DownloadModes: h.journal,
	}
	for _, opt := range opts {
		opt(&options, &providers)
	}
	api, err := shellapi.New(context.Background(), options, providers)
	if err != nil {
		t.Fatalf("shellapi.New: %v", err)
	}
	t.Cleanup(api.Close)
	h.api = api
	return h
}

// connect adds a listener and consumes its folder registration lines.
func (h *harness) connect() *testsupport.LineConn {
	h.t.Helper()
	conn := testsupport.NewLineConn()
	if _, err := h.api.AddListener(conn); err != nil {
		h.t.Fatalf("AddListener: %v", err)
	}
	syncable := 0
	for _, f := range h.folders.SyncableFolders() {
		if f.CanSync() {
			syncable++
		}
	}
	conn.NextN(h.t, 2*syncable)
	return conn
}

func (h *harness) send(conn shellapi.Conn, line string) {
	h.api.HandleLine(context.Background(), conn, line)
}

// quiet waits until every queued message for conn is written and fails if
// anything arrived.
func (h *harness) quiet(conn *testsupport.LineConn) {
	h.t.Helper()
	l := h.api.FindListener(conn)
	if l == nil {
		h.t.Fatal("listener not registered")
	}
	l.Flush()
	conn.ExpectNone(h.t)
}
