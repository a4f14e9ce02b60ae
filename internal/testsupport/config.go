package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"shellsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config seeded with unique temp directories per test.
// The socket, journal and logs live under one temp dir; no folders are
// configured unless WithFolder is given.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Socket.Path = filepath.Join(base, "run", "socket")
	cfgVal.Journal.Path = filepath.Join(base, "journal.db")
	cfgVal.Logging.Dir = filepath.Join(base, "logs")
	cfgVal.Account.URL = "https://cloud.example.com"
	cfgVal.Account.User = "alice"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}
	for _, opt := range opts {
		opt(builder)
	}
	return builder.cfg
}

// BaseDir returns the directory holding a test config's files.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Journal.Path)
}

// WithFolder adds a sync folder rooted at a subdirectory of the test dir.
func WithFolder(alias, remotePath string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Folders = append(b.cfg.Folders, config.Folder{
			Alias:      alias,
			LocalPath:  filepath.ToSlash(filepath.Join(b.baseDir, alias)),
			RemotePath: config.NormalizeRemotePath(remotePath),
		})
	}
}

// WithEditor adds a direct editor.
func WithEditor(id string, mimeTypes ...string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Editors = append(b.cfg.Editors, config.Editor{ID: id, Name: id, MimeTypes: mimeTypes})
	}
}

// WithAccountURL points the account at a test server.
func WithAccountURL(url string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Account.URL = url
	}
}

// WriteConfig writes cfg as TOML to path.
func WriteConfig(t testing.TB, path string, cfg *config.Config) {
	t.Helper()

	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("create config dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}
