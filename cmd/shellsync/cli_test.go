package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"shellsync/internal/testsupport"
)

func TestSendPrintsReplies(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"send", "version"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("send: %v", err)
	}
	requireContains(t, out, "VERSION:0.1.0:1.1")
	if strings.Contains(out, "REGISTER_PATH") {
		t.Fatalf("registration lines leaked into output: %q", out)
	}
}

func TestStatusCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.PutSyncedFile(t, env.daemon.Journal(), "docs", "a.txt", "7")

	synced := filepath.Join(env.folderPath, "a.txt")
	outside := filepath.Join(t.TempDir(), "elsewhere.txt")
	out, _, err := runCLI(t, []string{"status", synced, outside}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	requireContains(t, out, synced+"  [OK] Up to date")
	requireContains(t, out, outside+"  [INFO] Not synced")
}

func TestMenuAndStringsCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	testsupport.PutSyncedFile(t, env.daemon.Journal(), "docs", "a.txt", "7")

	out, _, err := runCLI(t, []string{"menu", filepath.Join(env.folderPath, "a.txt")}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("menu: %v", err)
	}
	requireContains(t, out, "OFFLINE_DOWNLOAD_MODE")
	requireContains(t, out, "ONLINE_DOWNLOAD_MODE")

	out, _, err = runCLI(t, []string{"strings", "SHARE_MENU_TITLE"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("strings: %v", err)
	}
	requireContains(t, out, "SHARE_MENU_TITLE")
	if strings.Contains(out, "CONTEXT_MENU_TITLE") {
		t.Fatalf("filtered strings returned other keys: %q", out)
	}
}

func TestDownloadModeCommands(t *testing.T) {
	env := setupCLITestEnv(t)
	dir := filepath.Join(env.folderPath, "Photos")

	out, _, err := runCLI(t, []string{"download-mode", "get", dir}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("download-mode get: %v", err)
	}
	requireContains(t, out, dir+": ONLINE")

	out, _, err = runCLI(t, []string{"download-mode", "set", dir, "offline"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("download-mode set: %v", err)
	}
	requireContains(t, out, dir+": OFFLINE")

	out, _, err = runCLI(t, []string{"download-mode", "list", "docs"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("download-mode list: %v", err)
	}
	requireContains(t, out, filepath.ToSlash(dir))
	requireContains(t, out, "OFFLINE")

	outside := filepath.Join(t.TempDir(), "x")
	if _, _, err := runCLI(t, []string{"download-mode", "set", outside, "online"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for a path outside every folder")
	}
	if _, _, err := runCLI(t, []string{"download-mode", "set", dir, "sometimes"}, env.socketPath, env.configPath); err == nil {
		t.Fatal("expected error for an unknown mode")
	}
}

func TestMissingDaemonExplainsHowToStart(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	configPath := filepath.Join(testsupport.BaseDir(cfg), "config.toml")
	testsupport.WriteConfig(t, configPath, cfg)

	_, _, err := runCLI(t, []string{"send", "VERSION"}, filepath.Join(testsupport.BaseDir(cfg), "absent.sock"), configPath)
	if err == nil {
		t.Fatal("expected dial error")
	}
	requireContains(t, err.Error(), "shellsync daemon")
}

func TestConfigInitShowAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"config", "validate"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Configuration valid")

	out, _, err = runCLI(t, []string{"config", "show"}, env.socketPath, env.configPath)
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	requireContains(t, out, "docs")
	requireContains(t, out, env.socketPath)

	target := filepath.Join(t.TempDir(), "config.toml")
	out, _, err = runCLI(t, []string{"config", "init", "--path", target}, "", "")
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}
	if _, _, err := runCLI(t, []string{"config", "init", "--path", target}, "", ""); err == nil {
		t.Fatal("expected init to refuse overwriting")
	}
}
