// Package desktop performs the user-visible side effects of context menu
// actions: clipboard writes, opening URLs and local paths, and composing
// email.
package desktop

import (
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"sync"

	"github.com/cli/browser"
	"golang.design/x/clipboard"

	"shellsync/internal/logging"
)

// Desktop implements the socket API's desktop side effects.
type Desktop struct {
	logger    *slog.Logger
	openURL   func(string) error
	openFile  func(string) error
	writeClip func([]byte) error

	initOnce sync.Once
	initErr  error
}

// Option customizes a Desktop.
type Option func(*Desktop)

// WithURLOpener replaces the browser launcher.
func WithURLOpener(open func(string) error) Option {
	return func(d *Desktop) { d.openURL = open }
}

// WithFileOpener replaces the launcher used for local paths.
func WithFileOpener(open func(string) error) Option {
	return func(d *Desktop) { d.openFile = open }
}

// WithClipboard replaces the system clipboard writer.
func WithClipboard(write func([]byte) error) Option {
	return func(d *Desktop) {
		d.writeClip = write
		d.initOnce.Do(func() {})
	}
}

// New returns a Desktop backed by the system browser and clipboard.
func New(logger *slog.Logger, opts ...Option) *Desktop {
	d := &Desktop{
		logger:   logging.NewComponentLogger(logger, "desktop"),
		openURL:  browser.OpenURL,
		openFile: browser.OpenFile,
		writeClip: func(data []byte) error {
			clipboard.Write(clipboard.FmtText, data)
			return nil
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// CopyToClipboard places text on the clipboard. The clipboard is initialized
// on first use; without a display every copy fails with the init error.
func (d *Desktop) CopyToClipboard(text string) error {
	d.initOnce.Do(func() {
		d.initErr = clipboard.Init()
	})
	if d.initErr != nil {
		return fmt.Errorf("initialize clipboard: %w", d.initErr)
	}
	if err := d.writeClip([]byte(text)); err != nil {
		return fmt.Errorf("write clipboard: %w", err)
	}
	d.logger.Debug("copied to clipboard", logging.Int("bytes", len(text)))
	return nil
}

// OpenURL opens target in the default browser.
func (d *Desktop) OpenURL(target string) error {
	if err := d.openURL(target); err != nil {
		return fmt.Errorf("open url: %w", err)
	}
	return nil
}

// OpenPath opens a local file or directory with its default handler. The
// desktop handler decides about windows, so newWindow is advisory.
func (d *Desktop) OpenPath(localPath string, newWindow bool) error {
	if err := d.openFile(localPath); err != nil {
		return fmt.Errorf("open %s: %w", localPath, err)
	}
	d.logger.Debug("opened path",
		logging.String(logging.FieldPath, localPath),
		logging.Bool("new_window", newWindow),
	)
	return nil
}

// ComposeEmail opens the mail client with a prefilled message.
func (d *Desktop) ComposeEmail(subject, body string) error {
	return d.OpenURL(MailtoURL(subject, body))
}

// MailtoURL builds a mailto: URL without recipients. Spaces are encoded as
// %20 since mail clients do not decode '+'.
func MailtoURL(subject, body string) string {
	q := url.Values{}
	if subject != "" {
		q.Set("subject", subject)
	}
	if body != "" {
		q.Set("body", body)
	}
	encoded := strings.ReplaceAll(q.Encode(), "+", "%20")
	if encoded == "" {
		return "mailto:"
	}
	return "mailto:?" + encoded
}
