package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shellsync/internal/config"
)

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	tempHome := t.TempDir()
	runtimeDir := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Setenv("XDG_RUNTIME_DIR", runtimeDir)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	if want := filepath.Join(runtimeDir, "shellsync", "socket"); cfg.SocketPath() != want {
		t.Fatalf("unexpected socket path: got %q want %q", cfg.SocketPath(), want)
	}
	if want := filepath.Join(tempHome, ".local", "share", "shellsync", "journal.db"); cfg.Journal.Path != want {
		t.Fatalf("unexpected journal path: got %q want %q", cfg.Journal.Path, want)
	}
	if cfg.Socket.MailboxSize != config.Default().Socket.MailboxSize {
		t.Fatalf("unexpected mailbox size: %d", cfg.Socket.MailboxSize)
	}
	if !cfg.Capabilities.ShareAPI || !cfg.Capabilities.PublicLink {
		t.Fatal("expected sharing capabilities enabled by default")
	}
	if cfg.LockPath() != cfg.SocketPath()+".lock" {
		t.Fatalf("unexpected lock path %q", cfg.LockPath())
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{filepath.Dir(cfg.Socket.Path), filepath.Dir(cfg.Journal.Path), cfg.Logging.Dir} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q to exist: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be directory", dir)
		}
	}
}

func TestLoadCustomPathNormalizesFolders(t *testing.T) {
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "shellsync.toml")
	syncRoot := filepath.Join(tempDir, "Cloud")

	custom := config.Default()
	custom.Socket.Path = filepath.Join(tempDir, "sock")
	custom.Account.URL = "https://cloud.example.com/"
	custom.Folders = []config.Folder{
		{LocalPath: syncRoot + "/", RemotePath: "Photos/"},
		{Alias: "docs", LocalPath: filepath.Join(tempDir, "Docs")},
	}
	custom.Editors = []config.Editor{{ID: "text", MimeTypes: []string{" Text/Markdown ", "text/markdown"}}}
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists || resolved != configPath {
		t.Fatalf("unexpected resolution: %q exists=%v", resolved, exists)
	}
	if cfg.Account.URL != "https://cloud.example.com" {
		t.Fatalf("expected trailing slash trimmed, got %q", cfg.Account.URL)
	}
	first := cfg.Folders[0]
	if first.Alias != "Cloud" {
		t.Fatalf("expected alias derived from path, got %q", first.Alias)
	}
	if first.LocalPath != filepath.ToSlash(syncRoot) {
		t.Fatalf("unexpected local path %q", first.LocalPath)
	}
	if first.RemotePath != "/Photos" {
		t.Fatalf("unexpected remote path %q", first.RemotePath)
	}
	if cfg.Folders[1].RemotePath != "/" {
		t.Fatalf("expected default remote root, got %q", cfg.Folders[1].RemotePath)
	}
	if got := cfg.Editors[0].MimeTypes; len(got) != 1 || got[0] != "text/markdown" {
		t.Fatalf("unexpected mimetypes %v", got)
	}
}

func TestEnvVarOverridesAppPassword(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "shellsync.toml")
	if err := os.WriteFile(configPath, []byte("[account]\napp_password = \"file-secret\"\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("SHELLSYNC_APP_PASSWORD", "env-secret")

	cfg, _, _, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Account.AppPassword != "env-secret" {
		t.Errorf("expected app password from env, got %q", cfg.Account.AppPassword)
	}
}

func TestValidateRejectsBadConfigs(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   string
	}{
		{"duplicate alias", func(c *config.Config) {
			c.Folders = []config.Folder{{Alias: "a", LocalPath: "/x"}, {Alias: "a", LocalPath: "/y"}}
		}, "alias"},
		{"duplicate path", func(c *config.Config) {
			c.Folders = []config.Folder{{Alias: "a", LocalPath: "/x"}, {Alias: "b", LocalPath: "/x"}}
		}, "local_path"},
		{"missing path", func(c *config.Config) {
			c.Folders = []config.Folder{{Alias: "a"}}
		}, "local_path must be set"},
		{"bad scheme", func(c *config.Config) { c.Account.URL = "ftp://host" }, "http or https"},
		{"editor without types", func(c *config.Config) {
			c.Editors = []config.Editor{{ID: "x"}}
		}, "mimetype"},
		{"mailbox", func(c *config.Config) { c.Socket.MailboxSize = 0 }, "mailbox_size"},
		{"timeout", func(c *config.Config) { c.Account.RequestTimeout = 0 }, "request_timeout"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.want) {
				t.Fatalf("error %q does not mention %q", err, tc.want)
			}
		})
	}
}

func TestNormalizeRemotePath(t *testing.T) {
	tests := map[string]string{
		"":           "/",
		"/":          "/",
		"Photos":     "/Photos",
		"/a/b/":      "/a/b",
		`\win\style`: "/win/style",
	}
	for in, want := range tests {
		if got := config.NormalizeRemotePath(in); got != want {
			t.Fatalf("NormalizeRemotePath(%q)=%q want %q", in, got, want)
		}
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("sample does not parse: %v", err)
	}
	if len(cfg.Folders) != 1 || cfg.Folders[0].Alias != "main" {
		t.Fatalf("unexpected sample folders %+v", cfg.Folders)
	}
	if cfg.Socket.AppName != "shellsync" {
		t.Fatalf("unexpected sample app name %q", cfg.Socket.AppName)
	}
}
