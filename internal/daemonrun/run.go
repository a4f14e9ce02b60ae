// Package daemonrun hosts the shellsync daemon process: logger setup, log
// retention, the pid file, signal handling and service supervision.
package daemonrun

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/thejerf/suture/v4"

	"shellsync/internal/config"
	"shellsync/internal/daemon"
	"shellsync/internal/logging"
	"shellsync/internal/notifications"
)

const serviceTimeout = 10 * time.Second

// Options configures daemon process runtime behavior.
type Options struct {
	// ConfigPath is watched for folder changes. Empty disables reloads.
	ConfigPath  string
	LogLevel    string
	Development bool
}

// Run starts the shellsync daemon and blocks until a signal or cmdCtx ends it.
func Run(cmdCtx context.Context, cfg *config.Config, opts Options) error {
	if cfg == nil {
		return fmt.Errorf("config is required")
	}

	signalCtx, cancel := signal.NotifyContext(cmdCtx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if opts.LogLevel != "" {
		cfg.Logging.Level = opts.LogLevel
	}
	if opts.Development {
		cfg.Logging.Level = "debug"
	}
	startedAt := time.Now()
	if _, err := logging.RotateActiveLog(cfg.Logging.Dir, startedAt); err != nil {
		fmt.Fprintf(os.Stderr, "warn: unable to archive previous log: %v\n", err)
	}
	logger, err := logging.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	runID := uuid.NewString()
	logger = logger.With(logging.String("run_id", runID))

	logging.CleanupOldLogs(logger, cfg.Logging.Dir, cfg.Logging.RetentionDays, startedAt)

	if err := cfg.EnsureDirectories(); err != nil {
		return fmt.Errorf("ensure directories: %w", err)
	}
	pidPath := cfg.PIDPath()
	if err := writePIDFile(pidPath); err != nil {
		return fmt.Errorf("write pid file: %w", err)
	}
	defer os.Remove(pidPath)

	d, err := daemon.New(signalCtx, cfg, logger, daemon.Options{
		ConfigPath: opts.ConfigPath,
		Notifier:   notifications.NewService(cfg),
	})
	if err != nil {
		return fmt.Errorf("create daemon: %w", err)
	}
	defer d.Close()

	if err := d.Start(signalCtx); err != nil {
		return fmt.Errorf("start daemon: %w", err)
	}
	defer d.Stop()

	sup := suture.New("shellsyncd", supervisorSpec(logger))
	for _, svc := range d.Services() {
		sup.Add(svc)
	}

	logger.Info("shellsync daemon running",
		logging.String(logging.FieldEventType, "daemon_running"),
		logging.String("socket", cfg.SocketPath()),
		logging.String("journal", cfg.Journal.Path),
		logging.Int("pid", os.Getpid()),
	)
	err = sup.Serve(signalCtx)
	logger.Info("shellsync daemon shutting down", logging.String(logging.FieldEventType, "daemon_shutdown"))
	if err != nil && !errors.Is(err, context.Canceled) {
		logging.ErrorWithContext(logger, "supervisor stopped unexpectedly", "supervisor_failed",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "inspect earlier service events in the daemon log"),
		)
		return fmt.Errorf("supervisor: %w", err)
	}
	return nil
}

func supervisorSpec(logger *slog.Logger) suture.Spec {
	logger = logging.NewComponentLogger(logger, "supervisor")
	return suture.Spec{
		EventHook: func(e suture.Event) {
			logging.WarnWithContext(logger, "supervised service event", "service_event",
				logging.String("event", e.String()),
				logging.String(logging.FieldImpact, "service restarted or stopped"),
				logging.String(logging.FieldErrorHint, "check the preceding errors for the failing service"),
			)
		},
		Timeout:           serviceTimeout,
		PassThroughPanics: true,
	}
}

func writePIDFile(path string) error {
	if path == "" {
		return nil
	}
	value := strconv.Itoa(os.Getpid()) + "\n"
	return os.WriteFile(path, []byte(value), 0o644)
}
