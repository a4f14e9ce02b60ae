package ipc_test

import (
	"context"
	"errors"
	"io"
	"net"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"shellsync/internal/ipc"
	"shellsync/internal/logging"
	"shellsync/internal/shellapi"
	"shellsync/internal/syncstate"
	"shellsync/internal/testsupport"
)

const quiet = 200 * time.Millisecond

// socketPath returns a short path; t.TempDir can exceed the sun_path limit.
func socketPath(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "ss")
	if err != nil {
		t.Fatalf("MkdirTemp: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(dir) })
	return filepath.Join(dir, "socket")
}

type fixture struct {
	api     *shellapi.API
	srv     *ipc.Server
	journal *testsupport.Journal
	served  chan error
}

func newAPI(t *testing.T, journal *testsupport.Journal) *shellapi.API {
	t.Helper()
	folders := testsupport.NewFolders(syncstate.Folder{
		Alias: "docs", Path: "/srv/docs", RemotePath: "/", Connected: true, Status: syncstate.FolderSuccess,
	})
	api, err := shellapi.New(context.Background(), shellapi.Options{
		AppName: "Cloud", AppVersion: "3.1.0", Logger: logging.NewNop(),
	}, shellapi.Providers{
		Folders:      folders,
		Journal:      journal,
		Status:       journal,
		Capabilities: testsupport.AllCapabilities(),
	})
	if err != nil {
		t.Fatalf("shellapi.New: %v", err)
	}
	t.Cleanup(api.Close)
	return api
}

func newServer(t *testing.T, ctx context.Context, socket string, handler ipc.Handler) *ipc.Server {
	t.Helper()
	srv, err := ipc.NewServer(ctx, socket, handler, logging.NewNop())
	if err != nil {
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping socket server test: %v", err)
		}
		t.Fatalf("ipc.NewServer: %v", err)
	}
	t.Cleanup(srv.Close)
	return srv
}

func startServer(t *testing.T, socket string) *fixture {
	t.Helper()
	journal := testsupport.NewJournal()
	api := newAPI(t, journal)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	srv := newServer(t, ctx, socket, api)
	f := &fixture{api: api, srv: srv, journal: journal, served: make(chan error, 1)}
	go func() { f.served <- srv.Serve(ctx) }()
	return f
}

func dial(t *testing.T, socket string) *ipc.Client {
	t.Helper()
	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestServerAnnouncesFoldersAndAnswersVersion(t *testing.T) {
	socket := socketPath(t)
	startServer(t, socket)
	client := dial(t, socket)

	for _, want := range []string{"REGISTER_PATH:/srv/docs", "REGISTER_DRIVEFS:/srv/docs"} {
		line, err := client.ReadLine(2 * time.Second)
		if err != nil {
			t.Fatalf("ReadLine: %v", err)
		}
		if line != want {
			t.Fatalf("registration = %q want %q", line, want)
		}
	}

	lines, err := client.Request("VERSION:", quiet)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if len(lines) != 1 || lines[0] != "VERSION:3.1.0:1.1" {
		t.Fatalf("VERSION reply = %q", lines)
	}
}

func TestServerNormalizesInboundPathsToNFC(t *testing.T) {
	socket := socketPath(t)
	f := startServer(t, socket)
	f.journal.PutSynced("docs", "caf\u00e9.txt", "1")
	client := dial(t, socket)

	lines, err := client.Request("RETRIEVE_FILE_STATUS:/srv/docs/cafe\u0301.txt", quiet)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	want := "STATUS:OK:/srv/docs/caf\u00e9.txt"
	if len(lines) != 1 || lines[0] != want {
		t.Fatalf("status reply = %q want %q", lines, want)
	}
}

func TestServerCollectsBracketedReplies(t *testing.T) {
	socket := socketPath(t)
	startServer(t, socket)
	client := dial(t, socket)

	lines, err := client.Request("GET_STRINGS:SHARE_MENU_TITLE", 2*time.Second)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if len(lines) != 3 || lines[0] != "GET_STRINGS:BEGIN" || lines[2] != "GET_STRINGS:END" {
		t.Fatalf("GET_STRINGS reply = %q", lines)
	}
	if !strings.HasPrefix(lines[1], "STRING:SHARE_MENU_TITLE:") {
		t.Fatalf("unexpected string line %q", lines[1])
	}
}

func TestServerRemovesListenerOnDisconnect(t *testing.T) {
	socket := socketPath(t)
	f := startServer(t, socket)
	client, err := ipc.Dial(socket)
	if err != nil {
		t.Fatalf("ipc.Dial: %v", err)
	}
	if _, err := client.Request("VERSION:", quiet); err != nil {
		t.Fatalf("Request: %v", err)
	}
	if f.api.Listeners() != 1 {
		t.Fatalf("listeners = %d want 1", f.api.Listeners())
	}
	client.Close()

	deadline := time.Now().Add(2 * time.Second)
	for f.api.Listeners() != 0 {
		if time.Now().After(deadline) {
			t.Fatalf("listener not removed after disconnect")
		}
		time.Sleep(10 * time.Millisecond)
	}
}

func TestServerCloseDisconnectsClientsAndRemovesSocket(t *testing.T) {
	socket := socketPath(t)
	f := startServer(t, socket)
	client := dial(t, socket)
	if _, err := client.Request("VERSION:", quiet); err != nil {
		t.Fatalf("Request: %v", err)
	}

	f.srv.Close()

	if _, err := client.ReadLine(2 * time.Second); !errors.Is(err, io.EOF) {
		t.Fatalf("ReadLine after close = %v want EOF", err)
	}
	select {
	case err := <-f.served:
		if !errors.Is(err, ipc.ErrServerClosed) {
			t.Fatalf("Serve returned %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after Close")
	}
	if _, err := os.Stat(socket); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("socket still present: %v", err)
	}
	if f.api.Listeners() != 0 {
		t.Fatalf("listeners = %d after close", f.api.Listeners())
	}
}

func TestNewServerReplacesStaleSocket(t *testing.T) {
	socket := socketPath(t)
	stale, err := net.Listen("unix", socket)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	stale.(*net.UnixListener).SetUnlinkOnClose(false)
	stale.Close()
	if _, err := os.Stat(socket); err != nil {
		t.Fatalf("expected stale socket file: %v", err)
	}

	startServer(t, socket)
	client := dial(t, socket)
	if _, err := client.ReadLine(2 * time.Second); err != nil {
		t.Fatalf("ReadLine: %v", err)
	}
}

func TestNewServerRefusesLiveSocket(t *testing.T) {
	socket := socketPath(t)
	startServer(t, socket)

	_, err := ipc.NewServer(context.Background(), socket, nopHandler{}, logging.NewNop())
	if !errors.Is(err, ipc.ErrSocketInUse) {
		t.Fatalf("NewServer on live socket = %v want ErrSocketInUse", err)
	}
}

func TestPeerCredentials(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("peer credentials are linux only")
	}
	a, _, err := unixPair(t)
	if err != nil {
		t.Skipf("skipping: %v", err)
	}
	cred, err := ipc.PeerCredentials(a)
	if err != nil {
		t.Fatalf("PeerCredentials: %v", err)
	}
	if int(cred.PID) != os.Getpid() || int(cred.UID) != os.Getuid() {
		t.Fatalf("cred = %s want pid=%d uid=%d", cred, os.Getpid(), os.Getuid())
	}
	if _, err := ipc.PeerCredentials(&net.TCPConn{}); err == nil {
		t.Fatal("expected error for non-unix connection")
	}
}

func unixPair(t *testing.T) (net.Conn, net.Conn, error) {
	socket := socketPath(t)
	ln, err := net.Listen("unix", socket)
	if err != nil {
		return nil, nil, err
	}
	t.Cleanup(func() { ln.Close() })
	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err == nil {
			accepted <- conn
		}
		close(accepted)
	}()
	client, err := net.Dial("unix", socket)
	if err != nil {
		return nil, nil, err
	}
	t.Cleanup(func() { client.Close() })
	server, ok := <-accepted
	if !ok {
		return nil, nil, errors.New("accept failed")
	}
	t.Cleanup(func() { server.Close() })
	return server, client, nil
}

// countingHandler tracks how many registered connections were released.
type countingHandler struct {
	ipc.Handler
	added   atomic.Int64
	removed atomic.Int64
}

func (h *countingHandler) AddListener(conn shellapi.Conn) (*shellapi.Listener, error) {
	l, err := h.Handler.AddListener(conn)
	if err == nil {
		h.added.Add(1)
	}
	return l, err
}

func (h *countingHandler) RemoveListener(conn shellapi.Conn) {
	h.removed.Add(1)
	h.Handler.RemoveListener(conn)
}

func TestServerCloseWaitsForConnectionsInFlight(t *testing.T) {
	for round := 0; round < 10; round++ {
		socket := socketPath(t)
		handler := &countingHandler{Handler: newAPI(t, testsupport.NewJournal())}
		ctx, cancel := context.WithCancel(context.Background())
		srv := newServer(t, ctx, socket, handler)
		served := make(chan error, 1)
		go func() { served <- srv.Serve(ctx) }()

		var wg sync.WaitGroup
		for i := 0; i < 16; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				if client, err := ipc.Dial(socket); err == nil {
					_, _ = client.ReadLine(time.Second)
					client.Close()
				}
			}()
		}
		time.Sleep(time.Duration(round) * time.Millisecond)
		srv.Close()

		if added, removed := handler.added.Load(), handler.removed.Load(); added != removed {
			t.Fatalf("round %d: Close returned with %d of %d connections still registered", round, added-removed, added)
		}
		wg.Wait()
		cancel()
		<-served
	}
}

type nopHandler struct{}

func (nopHandler) AddListener(shellapi.Conn) (*shellapi.Listener, error) {
	return nil, errors.New("unused")
}
func (nopHandler) RemoveListener(shellapi.Conn)                   {}
func (nopHandler) HandleLine(context.Context, shellapi.Conn, string) {}
