package config

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeSocket(); err != nil {
		return err
	}
	c.normalizeAccount()
	c.normalizeEditors()
	if err := c.normalizeFolders(); err != nil {
		return err
	}
	var err error
	if strings.TrimSpace(c.Journal.Path) == "" {
		c.Journal.Path = defaultJournalPath
	}
	if c.Journal.Path, err = expandPath(c.Journal.Path); err != nil {
		return fmt.Errorf("journal.path: %w", err)
	}
	c.Notifications.NtfyTopic = strings.TrimSpace(c.Notifications.NtfyTopic)
	if c.Notifications.RequestTimeout <= 0 {
		c.Notifications.RequestTimeout = defaultNotifyRequestTimeout
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeSocket() error {
	c.Socket.AppName = strings.TrimSpace(c.Socket.AppName)
	if c.Socket.AppName == "" {
		c.Socket.AppName = defaultAppName
	}
	if c.Socket.MailboxSize <= 0 {
		c.Socket.MailboxSize = defaultMailboxSize
	}
	var err error
	if strings.TrimSpace(c.Socket.Path) == "" {
		c.Socket.Path = defaultSocketPath(c.Socket.AppName)
	}
	if c.Socket.Path, err = expandPath(c.Socket.Path); err != nil {
		return fmt.Errorf("socket.path: %w", err)
	}
	if strings.TrimSpace(c.Socket.DrivePath) != "" {
		if c.Socket.DrivePath, err = expandPath(c.Socket.DrivePath); err != nil {
			return fmt.Errorf("socket.drive_path: %w", err)
		}
	}
	return nil
}

func (c *Config) normalizeAccount() {
	c.Account.URL = strings.TrimRight(strings.TrimSpace(c.Account.URL), "/")
	c.Account.User = strings.TrimSpace(c.Account.User)
	if value, ok := os.LookupEnv(appPasswordEnv); ok && strings.TrimSpace(value) != "" {
		c.Account.AppPassword = strings.TrimSpace(value)
	}
	if c.Account.RequestTimeout <= 0 {
		c.Account.RequestTimeout = defaultAccountTimeout
	}
}

func (c *Config) normalizeEditors() {
	for i := range c.Editors {
		editor := &c.Editors[i]
		editor.ID = strings.TrimSpace(editor.ID)
		editor.Name = strings.TrimSpace(editor.Name)
		editor.MimeTypes = normalizeMimeTypes(editor.MimeTypes)
		editor.OptionalMimeTypes = normalizeMimeTypes(editor.OptionalMimeTypes)
	}
}

func normalizeMimeTypes(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, value := range values {
		normalized := strings.ToLower(strings.TrimSpace(value))
		if normalized == "" {
			continue
		}
		if _, exists := seen[normalized]; exists {
			continue
		}
		seen[normalized] = struct{}{}
		out = append(out, normalized)
	}
	return out
}

func (c *Config) normalizeFolders() error {
	for i := range c.Folders {
		folder := &c.Folders[i]
		folder.Alias = strings.TrimSpace(folder.Alias)
		if strings.TrimSpace(folder.LocalPath) == "" {
			continue
		}
		local, err := expandPath(folder.LocalPath)
		if err != nil {
			return fmt.Errorf("folders[%d].local_path: %w", i, err)
		}
		folder.LocalPath = filepath.ToSlash(local)
		if folder.Alias == "" {
			folder.Alias = path.Base(folder.LocalPath)
		}
		folder.RemotePath = NormalizeRemotePath(folder.RemotePath)
	}
	return nil
}

// NormalizeRemotePath returns remote in "/a/b" form, "/" for the account root.
func NormalizeRemotePath(remote string) string {
	remote = strings.TrimSpace(strings.ReplaceAll(remote, "\\", "/"))
	if remote == "" {
		return defaultRemotePath
	}
	return path.Clean("/" + remote)
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
	var err error
	if c.Logging.Dir, err = expandPath(strings.TrimSpace(c.Logging.Dir)); err != nil {
		return fmt.Errorf("logging.dir: %w", err)
	}
	return nil
}
