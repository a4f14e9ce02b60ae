package shellapi

import (
	"context"
	"errors"

	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// ErrUnavailable is returned by the built-in stand-ins for optional
// providers that were not configured.
var ErrUnavailable = errors.New("shellapi: provider not configured")

// FolderProvider lists and resolves sync folders.
type FolderProvider interface {
	SyncableFolders() []syncstate.Folder
	// FolderForPath returns the folder owning a canonical slash-form path.
	FolderForPath(localPath string) (syncstate.Folder, bool)
	Folder(alias string) (syncstate.Folder, bool)
}

// JournalProvider looks up journal records. A record that was never synced
// is returned with Valid unset and a nil error.
type JournalProvider interface {
	Record(ctx context.Context, folder syncstate.Folder, relPath string) (syncstate.Record, error)
}

// StatusProvider reports per-file sync status.
type StatusProvider interface {
	FileStatus(ctx context.Context, folder syncstate.Folder, relPath string) (syncstate.FileStatus, error)
}

// CapabilityProvider reports the sharing features of a folder's server.
type CapabilityProvider interface {
	Capabilities(folder syncstate.Folder) syncstate.Capabilities
}

// LinkProvider obtains share links. Both calls may perform network round trips.
type LinkProvider interface {
	FetchOrCreatePublicLink(ctx context.Context, folder syncstate.Folder, accountPath string) (string, error)
	PrivateLink(ctx context.Context, folder syncstate.Folder, accountPath string, record syncstate.Record) (string, error)
}

// EditorProvider resolves server-side direct editors.
type EditorProvider interface {
	DirectEditorFor(folder syncstate.Folder, mimeType string) (syncstate.Editor, bool)
	RequestEditURL(ctx context.Context, folder syncstate.Folder, editor syncstate.Editor, accountPath string, record syncstate.Record) (string, error)
}

// SharePage selects the tab the share dialog opens on.
type SharePage int

const (
	SharePageUsers SharePage = iota
	SharePagePublicLinks
)

func (p SharePage) String() string {
	if p == SharePagePublicLinks {
		return "public_links"
	}
	return "users"
}

// ShareRequest is handed to the share UI after a successful SHARE.
type ShareRequest struct {
	Folder      syncstate.Folder
	LocalPath   string
	AccountPath string
	Record      syncstate.Record
	Page        SharePage
}

// ShareUI opens the interactive share dialog.
type ShareUI interface {
	ShowShareDialog(ctx context.Context, req ShareRequest) error
}

// Desktop performs local side effects requested by shell extensions.
type Desktop interface {
	CopyToClipboard(text string) error
	OpenURL(url string) error
	OpenPath(localPath string, newWindow bool) error
	ComposeEmail(subject, body string) error
}

// ErrorReporter surfaces asynchronous failures to the user. Errors never
// travel back over the socket.
type ErrorReporter interface {
	ReportError(ctx context.Context, title string, err error)
}

// DownloadModeStore persists per-path download modes.
type DownloadModeStore interface {
	SetSyncMode(ctx context.Context, folder syncstate.Folder, relPath string, mode wire.DownloadMode) error
	SyncMode(ctx context.Context, folder syncstate.Folder, relPath string) (wire.DownloadMode, error)
}

// Providers bundles the collaborators the API consults. Folders, Journal,
// Status and Capabilities are required; the rest fall back to stand-ins that
// fail with ErrUnavailable.
type Providers struct {
	Folders       FolderProvider
	Journal       JournalProvider
	Status        StatusProvider
	Capabilities  CapabilityProvider
	Links         LinkProvider
	Editors       EditorProvider
	ShareUI       ShareUI
	Desktop       Desktop
	Errors        ErrorReporter
	DownloadModes DownloadModeStore
}

func (p *Providers) validate() error {
	switch {
	case p.Folders == nil:
		return errors.New("shellapi: folder provider is required")
	case p.Journal == nil:
		return errors.New("shellapi: journal provider is required")
	case p.Status == nil:
		return errors.New("shellapi: status provider is required")
	case p.Capabilities == nil:
		return errors.New("shellapi: capability provider is required")
	}
	if p.Links == nil {
		p.Links = unavailable{}
	}
	if p.Editors == nil {
		p.Editors = unavailable{}
	}
	if p.ShareUI == nil {
		p.ShareUI = unavailable{}
	}
	if p.Desktop == nil {
		p.Desktop = unavailable{}
	}
	if p.DownloadModes == nil {
		p.DownloadModes = unavailable{}
	}
	return nil
}

type unavailable struct{}

func (unavailable) FetchOrCreatePublicLink(context.Context, syncstate.Folder, string) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) PrivateLink(context.Context, syncstate.Folder, string, syncstate.Record) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) DirectEditorFor(syncstate.Folder, string) (syncstate.Editor, bool) {
	return syncstate.Editor{}, false
}

func (unavailable) RequestEditURL(context.Context, syncstate.Folder, syncstate.Editor, string, syncstate.Record) (string, error) {
	return "", ErrUnavailable
}

func (unavailable) ShowShareDialog(context.Context, ShareRequest) error { return ErrUnavailable }

func (unavailable) CopyToClipboard(string) error { return ErrUnavailable }

func (unavailable) OpenURL(string) error { return ErrUnavailable }

func (unavailable) OpenPath(string, bool) error { return ErrUnavailable }

func (unavailable) ComposeEmail(string, string) error { return ErrUnavailable }

func (unavailable) SetSyncMode(context.Context, syncstate.Folder, string, wire.DownloadMode) error {
	return ErrUnavailable
}

func (unavailable) SyncMode(context.Context, syncstate.Folder, string) (wire.DownloadMode, error) {
	return wire.DownloadOnline, ErrUnavailable
}
