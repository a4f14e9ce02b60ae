package main

import (
	"bytes"
	"context"
	"path/filepath"
	"strings"
	"testing"

	"shellsync/internal/config"
	"shellsync/internal/daemon"
	"shellsync/internal/logging"
	"shellsync/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	daemon     *daemon.Daemon
	socketPath string
	configPath string
	folderPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, testsupport.WithFolder("docs", "/Docs"))
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	ctx, cancel := context.WithCancel(context.Background())
	d, err := daemon.New(ctx, cfg, logging.NewNop(), daemon.Options{Desktop: &testsupport.Desktop{}})
	if err != nil {
		cancel()
		t.Fatalf("daemon.New: %v", err)
	}
	if err := d.Start(ctx); err != nil {
		cancel()
		d.Close()
		if strings.Contains(err.Error(), "operation not permitted") {
			t.Skipf("skipping CLI test: %v", err)
		}
		t.Fatalf("daemon.Start: %v", err)
	}
	if d.Degraded() {
		cancel()
		d.Close()
		t.Skip("skipping CLI test: socket unavailable")
	}
	for _, svc := range d.Services() {
		go svc.Serve(ctx) //nolint:errcheck
	}
	t.Cleanup(func() {
		cancel()
		d.Close()
	})

	folder, _ := d.Folders().Folder("docs")
	return &cliTestEnv{
		cfg:        cfg,
		daemon:     d,
		socketPath: cfg.SocketPath(),
		configPath: configPath,
		folderPath: folder.Path,
	}
}

func runCLI(t *testing.T, args []string, socket, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if socket != "" {
		flags = append(flags, "--socket", socket)
	}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
