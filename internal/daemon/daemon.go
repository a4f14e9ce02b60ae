package daemon

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"github.com/thejerf/suture/v4"

	"shellsync/internal/config"
	"shellsync/internal/desktop"
	"shellsync/internal/folders"
	"shellsync/internal/ipc"
	"shellsync/internal/journal"
	"shellsync/internal/logging"
	"shellsync/internal/notifications"
	"shellsync/internal/sharing"
	"shellsync/internal/shellapi"
	"shellsync/internal/syncstate"
)

// Version is reported to shell extensions in the VERSION reply.
var Version = "0.1.0"

// Options customizes daemon construction.
type Options struct {
	// ConfigPath enables folder reloads when the file changes.
	ConfigPath string
	Notifier   notifications.Service
	// Desktop overrides the system clipboard and browser.
	Desktop shellapi.Desktop
}

// Daemon owns the socket API and its collaborators for one process.
type Daemon struct {
	cfg      *config.Config
	logger   *slog.Logger
	notifier notifications.Service

	lockPath string
	lock     *flock.Flock

	journal *journal.Store
	folders *folders.Manager
	api     *shellapi.API
	watcher *folders.Watcher
	feed    *StatusFeed

	mu       sync.Mutex
	server   *ipc.Server
	running  atomic.Bool
	degraded atomic.Bool
}

// Status represents daemon runtime information.
type Status struct {
	Running     bool
	Degraded    bool
	SocketPath  string
	LockPath    string
	JournalPath string
	Listeners   int
	Folders     []syncstate.Folder
	Journal     []journal.FolderSummary
}

// New opens the journal and builds the socket API. ctx bounds asynchronous
// handler work for the lifetime of the daemon.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger, opts Options) (*Daemon, error) {
	if cfg == nil {
		return nil, errors.New("daemon requires config")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	notifier := opts.Notifier
	if notifier == nil {
		notifier = notifications.NewService(cfg)
	}

	store, err := journal.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	if err := store.Check(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("journal %s: %w", store.Path(), err)
	}

	manager := folders.NewManager(cfg, logger)
	client := sharing.NewClient(cfg, logger)
	desk := opts.Desktop
	if desk == nil {
		desk = desktop.New(logger)
	}

	api, err := shellapi.New(ctx, shellapi.Options{
		AppName:     cfg.Socket.AppName,
		AppVersion:  Version,
		DrivePath:   cfg.Socket.DrivePath,
		MailboxSize: cfg.Socket.MailboxSize,
		Logger:      logger,
	}, shellapi.Providers{
		Folders:       manager,
		Journal:       store,
		Status:        store,
		Capabilities:  manager,
		Links:         client,
		Editors:       client,
		ShareUI:       sharing.NewBrowserShareUI(client, desk),
		Desktop:       desk,
		Errors:        notifications.NewReporter(notifier, logger),
		DownloadModes: store,
	})
	if err != nil {
		store.Close()
		return nil, fmt.Errorf("create socket api: %w", err)
	}

	d := &Daemon{
		cfg:      cfg,
		logger:   logging.NewComponentLogger(logger, "daemon"),
		notifier: notifier,
		lockPath: cfg.LockPath(),
		lock:     flock.New(cfg.LockPath()),
		journal:  store,
		folders:  manager,
		api:      api,
		feed:     NewStatusFeed(store, manager, api, logger),
	}
	if opts.ConfigPath != "" {
		d.watcher = folders.NewWatcher(opts.ConfigPath, manager, api, logger)
	}
	return d, nil
}

// API returns the socket API.
func (d *Daemon) API() *shellapi.API { return d.api }

// Folders returns the folder manager.
func (d *Daemon) Folders() *folders.Manager { return d.folders }

// Journal returns the journal store.
func (d *Daemon) Journal() *journal.Store { return d.journal }

// Start acquires the single-instance lock and binds the socket. Failing to
// bind is not an error: the daemon keeps running without shell integration.
func (d *Daemon) Start(ctx context.Context) error {
	if d.running.Load() {
		return errors.New("daemon already running")
	}

	ok, err := d.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return errors.New("another shellsync daemon instance is already running")
	}

	if err := d.feed.Prime(ctx); err != nil {
		_ = d.lock.Unlock()
		return fmt.Errorf("prime status feed: %w", err)
	}
	d.folders.Announce(d.api)

	socketPath := d.cfg.SocketPath()
	server, err := ipc.NewServer(ctx, socketPath, d.api, d.logger)
	if err != nil {
		d.degraded.Store(true)
		logging.WarnWithContext(d.logger, "shell integration unavailable", "socket_bind_failed",
			logging.String("socket", socketPath),
			logging.Error(err),
			logging.String(logging.FieldImpact, "file managers show no sync status or share actions"),
			logging.String(logging.FieldErrorHint, "check the socket directory permissions or stop the process holding the socket"),
		)
		if nerr := d.notifier.NotifySocketUnavailable(ctx, socketPath, err); nerr != nil {
			d.logger.Debug("socket unavailable notification failed", logging.Error(nerr))
		}
	} else {
		d.degraded.Store(false)
		d.mu.Lock()
		d.server = server
		d.mu.Unlock()
	}

	d.running.Store(true)
	d.logger.Info("shellsync daemon started",
		logging.String(logging.FieldEventType, "daemon_start"),
		logging.String("lock", d.lockPath),
		logging.String("socket", socketPath),
		logging.Bool("degraded", d.degraded.Load()),
		logging.Int("folders", len(d.folders.SyncableFolders())),
	)
	return nil
}

// Services returns the long-running services to supervise after Start.
func (d *Daemon) Services() []suture.Service {
	services := []suture.Service{d.feed}
	d.mu.Lock()
	if d.server != nil {
		services = append(services, socketService{server: d.server})
	}
	d.mu.Unlock()
	if d.watcher != nil {
		services = append(services, d.watcher)
	}
	return services
}

// Stop closes the socket server, disconnecting every shell extension, and
// releases the daemon lock.
func (d *Daemon) Stop() {
	if !d.running.Load() {
		return
	}
	d.mu.Lock()
	server := d.server
	d.server = nil
	d.mu.Unlock()
	if server != nil {
		server.Close()
	}
	if err := d.lock.Unlock(); err != nil {
		logging.WarnWithContext(d.logger, "failed to release daemon lock", "daemon_lock_release_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "next start may report a running instance"),
			logging.String(logging.FieldErrorHint, "remove "+d.lockPath+" if no daemon is running"),
		)
	}
	d.running.Store(false)
	d.logger.Info("shellsync daemon stopped", logging.String(logging.FieldEventType, "daemon_stop"))
}

// Close releases resources held by the daemon.
func (d *Daemon) Close() error {
	d.Stop()
	d.api.Close()
	return d.journal.Close()
}

// Degraded reports whether the socket could not be bound.
func (d *Daemon) Degraded() bool {
	return d.degraded.Load()
}

// Status reports runtime information.
func (d *Daemon) Status(ctx context.Context) Status {
	status := Status{
		Running:     d.running.Load(),
		Degraded:    d.degraded.Load(),
		SocketPath:  d.cfg.SocketPath(),
		LockPath:    d.lockPath,
		JournalPath: d.journal.Path(),
		Listeners:   d.api.Listeners(),
		Folders:     d.folders.SyncableFolders(),
	}
	if summary, err := d.journal.Summary(ctx); err == nil {
		status.Journal = summary
	} else {
		d.logger.Debug("journal summary unavailable", logging.Error(err))
	}
	return status
}

// socketService adapts the socket server to the supervisor. A closed server
// is not restarted since its socket is gone.
type socketService struct {
	server *ipc.Server
}

func (s socketService) Serve(ctx context.Context) error {
	err := s.server.Serve(ctx)
	if errors.Is(err, ipc.ErrServerClosed) {
		return suture.ErrDoNotRestart
	}
	return err
}

func (socketService) String() string { return "socket-server" }
