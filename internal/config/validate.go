package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateSocket(); err != nil {
		return err
	}
	if err := c.validateAccount(); err != nil {
		return err
	}
	if err := c.validateEditors(); err != nil {
		return err
	}
	if err := c.validateFolders(); err != nil {
		return err
	}
	return ensurePositiveMap(map[string]int{
		"account.request_timeout":       c.Account.RequestTimeout,
		"notifications.request_timeout": c.Notifications.RequestTimeout,
	})
}

func (c *Config) validateSocket() error {
	if c.Socket.MailboxSize <= 0 {
		return errors.New("socket.mailbox_size must be positive")
	}
	if strings.ContainsAny(c.Socket.AppName, "/\\") {
		return errors.New("socket.app_name must not contain path separators")
	}
	return nil
}

func (c *Config) validateAccount() error {
	if c.Account.URL == "" {
		return nil
	}
	parsed, err := url.Parse(c.Account.URL)
	if err != nil {
		return fmt.Errorf("account.url: %w", err)
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("account.url must use http or https, got %q", parsed.Scheme)
	}
	if parsed.Host == "" {
		return errors.New("account.url must include a host")
	}
	return nil
}

func (c *Config) validateEditors() error {
	seen := make(map[string]struct{}, len(c.Editors))
	for i, editor := range c.Editors {
		if editor.ID == "" {
			return fmt.Errorf("editors[%d].id must be set", i)
		}
		if _, dup := seen[editor.ID]; dup {
			return fmt.Errorf("editors[%d].id %q is duplicated", i, editor.ID)
		}
		seen[editor.ID] = struct{}{}
		if len(editor.MimeTypes)+len(editor.OptionalMimeTypes) == 0 {
			return fmt.Errorf("editors[%d] must list at least one mimetype", i)
		}
	}
	return nil
}

func (c *Config) validateFolders() error {
	aliases := make(map[string]struct{}, len(c.Folders))
	paths := make(map[string]struct{}, len(c.Folders))
	for i, folder := range c.Folders {
		if folder.LocalPath == "" {
			return fmt.Errorf("folders[%d].local_path must be set", i)
		}
		if _, dup := aliases[folder.Alias]; dup {
			return fmt.Errorf("folders[%d].alias %q is duplicated", i, folder.Alias)
		}
		aliases[folder.Alias] = struct{}{}
		if _, dup := paths[folder.LocalPath]; dup {
			return fmt.Errorf("folders[%d].local_path %q is duplicated", i, folder.LocalPath)
		}
		paths[folder.LocalPath] = struct{}{}
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
