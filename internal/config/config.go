package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Socket configures the local endpoint shell extensions connect to.
type Socket struct {
	Path    string `toml:"path"`
	AppName string `toml:"app_name"`
	// MailboxSize bounds the outbound queue of each connection.
	MailboxSize int `toml:"mailbox_size"`
	// DrivePath is announced through REGISTER_DRIVEFS. Empty means each
	// folder announces its own root.
	DrivePath string `toml:"drive_path"`
}

// Account contains the server the synced folders belong to.
type Account struct {
	URL            string `toml:"url"`
	User           string `toml:"user"`
	AppPassword    string `toml:"app_password"`
	Connected      bool   `toml:"connected"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Capabilities mirrors the sharing features advertised by the server.
type Capabilities struct {
	ShareAPI         bool `toml:"share_api"`
	PublicLink       bool `toml:"public_link"`
	EnforceExpiry    bool `toml:"enforce_expiry"`
	EnforcePassword  bool `toml:"enforce_password"`
	UserGroupSharing bool `toml:"user_group_sharing"`
}

// Editor declares a direct editing application available on the server.
type Editor struct {
	ID                string   `toml:"id"`
	Name              string   `toml:"name"`
	MimeTypes         []string `toml:"mimetypes"`
	OptionalMimeTypes []string `toml:"optional_mimetypes"`
}

// Folder pairs a local directory with a remote path.
type Folder struct {
	Alias      string `toml:"alias"`
	LocalPath  string `toml:"local_path"`
	RemotePath string `toml:"remote_path"`
	Paused     bool   `toml:"paused"`
}

// Journal locates the sync journal database.
type Journal struct {
	Path string `toml:"path"`
}

// Notifications contains configuration for ntfy push notifications.
type Notifications struct {
	NtfyTopic      string `toml:"ntfy_topic"`
	RequestTimeout int    `toml:"request_timeout"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	Dir           string `toml:"dir"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for shellsync.
type Config struct {
	Socket        Socket        `toml:"socket"`
	Account       Account       `toml:"account"`
	Capabilities  Capabilities  `toml:"capabilities"`
	Editors       []Editor      `toml:"editors"`
	Folders       []Folder      `toml:"folders"`
	Journal       Journal       `toml:"journal"`
	Notifications Notifications `toml:"notifications"`
	Logging       Logging       `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath(defaultConfigPath)
}

// Load locates, parses, and validates a configuration file. The returned config has all
// path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		if err := decodeFile(resolvedPath, &cfg); err != nil {
			return nil, "", false, err
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}
	return &cfg, resolvedPath, exists, nil
}

func decodeFile(path string, cfg *Config) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath(defaultConfigPath)
	if err != nil {
		return "", false, err
	}
	projectPath, err := filepath.Abs("shellsync.toml")
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := []string{filepath.Dir(c.Socket.Path), filepath.Dir(c.Journal.Path)}
	if c.Logging.Dir != "" {
		dirs = append(dirs, c.Logging.Dir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o700); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SocketPath returns the endpoint shell extensions connect to: the explicit
// socket.path, else $XDG_RUNTIME_DIR/<app_name>/socket, else a per-user
// directory under the system temp dir.
func (c *Config) SocketPath() string {
	if strings.TrimSpace(c.Socket.Path) != "" {
		return c.Socket.Path
	}
	return defaultSocketPath(c.Socket.AppName)
}

// LockPath returns the single-instance lock file beside the socket.
func (c *Config) LockPath() string {
	return c.SocketPath() + ".lock"
}

// PIDPath returns the daemon pid file beside the socket.
func (c *Config) PIDPath() string {
	return filepath.Join(filepath.Dir(c.SocketPath()), "shellsyncd.pid")
}

func defaultSocketPath(appName string) string {
	if strings.TrimSpace(appName) == "" {
		appName = defaultAppName
	}
	if base, ok := os.LookupEnv("XDG_RUNTIME_DIR"); ok && strings.TrimSpace(base) != "" {
		return filepath.Join(base, appName, "socket")
	}
	user := os.Getenv("USER")
	if user == "" {
		user = fmt.Sprintf("%d", os.Getuid())
	}
	return filepath.Join(os.TempDir(), "runtime-"+user, appName, "socket")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// SampleConfig returns the embedded sample configuration.
func SampleConfig() string {
	return sampleConfig
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
