package ipc

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"os"
	"path/filepath"
	"sync"
	"time"

	"shellsync/internal/logging"
	"shellsync/internal/wire"
)

// ErrServerClosed is returned by Serve once the server has been closed.
var ErrServerClosed = errors.New("ipc: server closed")

// ErrSocketInUse reports another live server on the socket path.
var ErrSocketInUse = errors.New("ipc: socket already in use")

// Server accepts shell extension connections on a Unix domain socket.
type Server struct {
	path     string
	handler  Handler
	logger   *slog.Logger
	listener net.Listener

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu    sync.Mutex
	conns map[net.Conn]struct{}
}

// NewServer binds the socket at path. A stale socket file left by a crashed
// daemon is removed; a socket with a live server behind it is not.
func NewServer(ctx context.Context, path string, handler Handler, logger *slog.Logger) (*Server, error) {
	if handler == nil {
		return nil, errors.New("ipc server requires handler")
	}
	if logger == nil {
		logger = logging.NewNop()
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("create socket directory: %w", err)
	}
	if err := removeStaleSocket(path); err != nil {
		return nil, err
	}

	listener, err := net.Listen("unix", path)
	if err != nil {
		return nil, fmt.Errorf("listen on socket: %w", err)
	}
	if err := os.Chmod(path, 0o600); err != nil {
		listener.Close()
		return nil, fmt.Errorf("restrict socket permissions: %w", err)
	}

	serverCtx, cancel := context.WithCancel(ctx)
	return &Server{
		path:     path,
		handler:  handler,
		logger:   logging.NewComponentLogger(logger, "ipc"),
		listener: listener,
		ctx:      serverCtx,
		cancel:   cancel,
		conns:    make(map[net.Conn]struct{}),
	}, nil
}

func removeStaleSocket(path string) error {
	if _, err := os.Lstat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if conn, err := net.DialTimeout("unix", path, 200*time.Millisecond); err == nil {
		conn.Close()
		return fmt.Errorf("%w: %s", ErrSocketInUse, path)
	}
	if err := os.RemoveAll(path); err != nil {
		return fmt.Errorf("remove existing socket: %w", err)
	}
	return nil
}

// Path returns the socket path.
func (s *Server) Path() string {
	return s.path
}

// Serve accepts connections until ctx is canceled or Close is called, then
// shuts the server down. It returns ErrServerClosed in both cases.
func (s *Server) Serve(ctx context.Context) error {
	stop := context.AfterFunc(ctx, s.Close)
	defer stop()

	s.logger.Info("socket server listening",
		logging.String(logging.FieldEventType, "socket_listening"),
		logging.String("socket", s.path))
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			select {
			case <-s.ctx.Done():
				s.Close()
				return ErrServerClosed
			default:
			}
			if errors.Is(err, net.ErrClosed) {
				s.Close()
				return ErrServerClosed
			}
			logging.WarnWithContext(s.logger, "accept failed", "socket_accept_failed",
				logging.Error(err),
				logging.String(logging.FieldImpact, "shell extensions may fail to connect"),
				logging.String(logging.FieldErrorHint, "check socket permissions and restart the daemon if needed"))
			time.Sleep(50 * time.Millisecond)
			continue
		}
		if !s.track(conn) {
			conn.Close()
			continue
		}
		go s.serveConn(conn)
	}
}

// track records conn and reserves its reader in wg. Both happen under mu so
// Close either sees the connection or rejects it.
func (s *Server) track(conn net.Conn) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.conns == nil {
		return false
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	return true
}

func (s *Server) untrack(conn net.Conn) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.conns, conn)
}

// serveConn registers conn with the handler and feeds it one line at a time
// until the peer disconnects or the server closes.
func (s *Server) serveConn(conn net.Conn) {
	defer s.wg.Done()
	defer s.untrack(conn)
	defer conn.Close()

	logger := s.logger
	if cred, err := PeerCredentials(conn); err == nil {
		logger = logger.With(logging.String("peer", cred.String()))
	} else {
		logger.Debug("peer credentials unavailable", logging.Error(err))
	}

	listener, err := s.handler.AddListener(conn)
	if err != nil {
		logger.Debug("connection rejected", logging.Error(err))
		return
	}
	defer s.handler.RemoveListener(conn)
	logger = logger.With(logging.String(logging.FieldConnectionID, listener.ID()))
	logger.Debug("connection accepted")

	reader := wire.NewLineReader(conn)
	for {
		line, err := reader.ReadLine()
		switch {
		case err == nil:
			s.handler.HandleLine(s.ctx, conn, line)
		case errors.Is(err, wire.ErrLineTooLong):
			logging.WarnWithContext(logger, "oversized socket message dropped", "socket_line_too_long",
				logging.Int("limit_bytes", wire.MaxLineBytes),
				logging.String(logging.FieldImpact, "one command ignored"),
				logging.String(logging.FieldErrorHint, "shell extension sent a path longer than the protocol allows"))
		case errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
			logger.Debug("connection closed")
			return
		default:
			logger.Debug("connection read failed", logging.Error(err))
			return
		}
	}
}

// Close stops accepting, disconnects every client, waits for their readers
// and removes the socket file. It is safe to call more than once.
func (s *Server) Close() {
	s.cancel()
	if s.listener != nil {
		_ = s.listener.Close()
	}

	s.mu.Lock()
	conns := s.conns
	s.conns = nil
	s.mu.Unlock()
	if conns == nil {
		s.wg.Wait()
		return
	}
	for conn := range conns {
		_ = conn.Close()
	}
	s.wg.Wait()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		logging.WarnWithContext(s.logger, "failed to remove socket", "socket_cleanup_failed",
			logging.String("socket", s.path),
			logging.Error(err),
			logging.String(logging.FieldImpact, "stale socket may block future starts"),
			logging.String(logging.FieldErrorHint, "remove the socket file manually"))
	}
}
