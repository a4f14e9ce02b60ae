package shellapi

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// ErrClosed is returned when using an API after Close.
var ErrClosed = errors.New("shellapi: closed")

// Options configures an API.
type Options struct {
	// AppName is shown in localized labels such as "Share via <AppName>".
	AppName    string
	AppVersion string
	// DrivePath is announced with REGISTER_DRIVEFS. Empty announces each
	// folder root.
	DrivePath   string
	MailboxSize int
	Logger      *slog.Logger
}

// API is the socket API shared by all connections.
type API struct {
	opts      Options
	providers Providers
	logger    *slog.Logger
	registry  Registry
	commands  map[wire.Verb]command
	labels    labels

	ctx    context.Context
	cancel context.CancelFunc
	jobs   sync.WaitGroup

	mu         sync.Mutex
	registered map[string]string // alias -> announced path
	closed     bool
}

// New builds an API. ctx bounds asynchronous work started by handlers.
func New(ctx context.Context, opts Options, providers Providers) (*API, error) {
	if err := providers.validate(); err != nil {
		return nil, err
	}
	if opts.AppName == "" {
		opts.AppName = "shellsync"
	}
	if opts.AppVersion == "" {
		opts.AppVersion = "dev"
	}
	if opts.MailboxSize <= 0 {
		opts.MailboxSize = 256
	}
	if ctx == nil {
		ctx = context.Background()
	}
	jobCtx, cancel := context.WithCancel(ctx)
	a := &API{
		opts:       opts,
		providers:  providers,
		logger:     logging.NewComponentLogger(opts.Logger, "shellapi"),
		labels:     newLabels(opts.AppName),
		ctx:        jobCtx,
		cancel:     cancel,
		registered: make(map[string]string),
	}
	a.commands = a.commandTable()
	return a, nil
}

// AddListener registers conn and announces every syncable folder to it.
func (a *API) AddListener(conn Conn) (*Listener, error) {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil, ErrClosed
	}
	l := newListener(conn, a.opts.MailboxSize, a.logger)
	a.registry.add(l)
	a.mu.Unlock()

	l.logger.Info("listener added",
		logging.String(logging.FieldEventType, "listener_added"),
		logging.Int("listeners", a.registry.Len()),
	)
	for _, folder := range a.providers.Folders.SyncableFolders() {
		if !folder.CanSync() {
			continue
		}
		l.SendMessage(wire.BuildMessage(wire.VerbRegisterPath, folder.Path, ""))
		l.SendMessage(wire.BuildMessage(wire.VerbRegisterDriveFS, a.drivePath(folder), ""))
	}
	return l, nil
}

// RemoveListener forgets conn. Unknown connections are ignored.
func (a *API) RemoveListener(conn Conn) {
	l := a.registry.remove(conn)
	if l == nil {
		return
	}
	l.close()
	l.logger.Info("listener removed",
		logging.String(logging.FieldEventType, "listener_removed"),
		logging.Int("listeners", a.registry.Len()),
	)
}

// FindListener returns the listener for conn, or nil.
func (a *API) FindListener(conn Conn) *Listener {
	return a.registry.Find(conn)
}

// Listeners returns the number of connected clients.
func (a *API) Listeners() int {
	return a.registry.Len()
}

// Wait blocks until asynchronous handler work has finished.
func (a *API) Wait() {
	a.jobs.Wait()
}

// Close cancels asynchronous work and discards every listener. Connections
// themselves belong to the transport.
func (a *API) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	a.mu.Unlock()

	a.cancel()
	for _, l := range a.registry.drain() {
		l.close()
		l.wait()
	}
	a.jobs.Wait()
}

func (a *API) drivePath(folder syncstate.Folder) string {
	if a.opts.DrivePath != "" {
		return a.opts.DrivePath
	}
	return folder.Path
}

// alive reports whether l is still the registered listener of its connection.
func (a *API) alive(l *Listener) bool {
	return a.registry.Find(l.conn) == l
}

// runAsync runs work off the connection's reader goroutine. work returns a
// completion that is only invoked if the originating listener is still
// registered once the work is done; otherwise the result is dropped.
func (a *API) runAsync(ctx context.Context, l *Listener, title string, work func(ctx context.Context) (func() error, error)) {
	logger := logging.WithContext(ctx, l.logger)
	a.jobs.Add(1)
	go func() {
		defer a.jobs.Done()
		complete, err := work(a.ctx)
		if !a.alive(l) {
			logger.Debug("async result dropped; connection closed",
				logging.String(logging.FieldEventType, "async_result_dropped"))
			return
		}
		if err != nil {
			logging.WarnWithContext(logger, title, "async_request_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check account connectivity and server logs"),
				logging.String(logging.FieldImpact, "requested action was not performed"),
			)
			if a.providers.Errors != nil {
				a.providers.Errors.ReportError(a.ctx, title, err)
			}
			return
		}
		if complete == nil {
			return
		}
		if err := complete(); err != nil {
			logging.WarnWithContext(logger, "desktop action failed", "desktop_action_failed",
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check that a clipboard, browser or mail client is available"),
				logging.String(logging.FieldImpact, "requested action was not performed"),
			)
		}
	}()
}
