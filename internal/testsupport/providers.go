package testsupport

import (
	"context"
	"sort"
	"strings"
	"sync"

	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// Folders is an in-memory folder provider.
type Folders struct {
	mu      sync.RWMutex
	folders []syncstate.Folder
}

// NewFolders returns a provider serving the given folders.
func NewFolders(folders ...syncstate.Folder) *Folders {
	return &Folders{folders: folders}
}

// Set adds or replaces a folder by alias.
func (f *Folders) Set(folder syncstate.Folder) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.folders {
		if f.folders[i].Alias == folder.Alias {
			f.folders[i] = folder
			return
		}
	}
	f.folders = append(f.folders, folder)
}

func (f *Folders) SyncableFolders() []syncstate.Folder {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]syncstate.Folder(nil), f.folders...)
}

func (f *Folders) FolderForPath(localPath string) (syncstate.Folder, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	candidates := append([]syncstate.Folder(nil), f.folders...)
	sort.Slice(candidates, func(i, j int) bool { return len(candidates[i].Path) > len(candidates[j].Path) })
	for _, folder := range candidates {
		if _, ok := folder.RelativePath(localPath); ok {
			return folder, true
		}
	}
	return syncstate.Folder{}, false
}

func (f *Folders) Folder(alias string) (syncstate.Folder, bool) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	for _, folder := range f.folders {
		if folder.Alias == alias {
			return folder, true
		}
	}
	return syncstate.Folder{}, false
}

// Journal is an in-memory journal, status and download mode provider.
type Journal struct {
	mu       sync.Mutex
	records  map[string]syncstate.Record
	statuses map[string]syncstate.FileStatus
	modes    map[string]wire.DownloadMode
	// Err is returned by Record when set.
	Err error
}

// NewJournal returns an empty journal.
func NewJournal() *Journal {
	return &Journal{
		records:  make(map[string]syncstate.Record),
		statuses: make(map[string]syncstate.FileStatus),
		modes:    make(map[string]wire.DownloadMode),
	}
}

func journalKey(alias, rel string) string {
	return alias + "\x00" + strings.Trim(rel, "/")
}

// Put stores a record and status for alias/rel.
func (j *Journal) Put(alias, rel string, rec syncstate.Record, status syncstate.FileStatus) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if rec.Path == "" {
		rec.Path = rel
	}
	j.records[journalKey(alias, rel)] = rec
	j.statuses[journalKey(alias, rel)] = status
}

// PutSynced stores a valid, up to date record.
func (j *Journal) PutSynced(alias, rel, fileID string) {
	j.Put(alias, rel, syncstate.Record{Valid: true, FileID: fileID}, syncstate.FileStatus{Tag: syncstate.StatusUpToDate})
}

func (j *Journal) Record(_ context.Context, folder syncstate.Folder, rel string) (syncstate.Record, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.Err != nil {
		return syncstate.Record{}, j.Err
	}
	return j.records[journalKey(folder.Alias, rel)], nil
}

func (j *Journal) FileStatus(_ context.Context, folder syncstate.Folder, rel string) (syncstate.FileStatus, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.statuses[journalKey(folder.Alias, rel)], nil
}

func (j *Journal) SetSyncMode(_ context.Context, folder syncstate.Folder, rel string, mode wire.DownloadMode) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.modes[journalKey(folder.Alias, rel)] = mode
	return nil
}

func (j *Journal) SyncMode(_ context.Context, folder syncstate.Folder, rel string) (wire.DownloadMode, error) {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.modes[journalKey(folder.Alias, rel)], nil
}

// StaticCapabilities reports the same capabilities for every folder.
type StaticCapabilities struct {
	Caps syncstate.Capabilities
}

func (s StaticCapabilities) Capabilities(syncstate.Folder) syncstate.Capabilities {
	return s.Caps
}

// AllCapabilities enables user, group and link sharing without enforcement.
func AllCapabilities() StaticCapabilities {
	return StaticCapabilities{Caps: syncstate.Capabilities{ShareAPI: true, PublicLink: true, UserGroupSharing: true}}
}

// Links is a scripted link provider. When Block is non-nil each call waits
// for it to close.
type Links struct {
	Public  string
	Private string
	Err     error
	Block   chan struct{}
}

func (l *Links) wait(ctx context.Context) error {
	if l.Block == nil {
		return nil
	}
	select {
	case <-l.Block:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *Links) FetchOrCreatePublicLink(ctx context.Context, _ syncstate.Folder, _ string) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", err
	}
	return l.Public, l.Err
}

func (l *Links) PrivateLink(ctx context.Context, _ syncstate.Folder, _ string, _ syncstate.Record) (string, error) {
	if err := l.wait(ctx); err != nil {
		return "", err
	}
	return l.Private, l.Err
}

// Editors serves a fixed editor list and edit URL.
type Editors struct {
	Editors []syncstate.Editor
	URL     string
	Err     error
}

func (e *Editors) DirectEditorFor(_ syncstate.Folder, mimeType string) (syncstate.Editor, bool) {
	for _, editor := range e.Editors {
		if editor.Handles(mimeType) {
			return editor, true
		}
	}
	return syncstate.Editor{}, false
}

func (e *Editors) RequestEditURL(context.Context, syncstate.Folder, syncstate.Editor, string, syncstate.Record) (string, error) {
	return e.URL, e.Err
}

// Desktop records side effects.
type Desktop struct {
	mu        sync.Mutex
	Clipboard []string
	URLs      []string
	Paths     []string
	Emails    [][2]string
}

func (d *Desktop) CopyToClipboard(text string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Clipboard = append(d.Clipboard, text)
	return nil
}

func (d *Desktop) OpenURL(url string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.URLs = append(d.URLs, url)
	return nil
}

func (d *Desktop) OpenPath(localPath string, newWindow bool) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if newWindow {
		localPath += " (new window)"
	}
	d.Paths = append(d.Paths, localPath)
	return nil
}

func (d *Desktop) ComposeEmail(subject, body string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.Emails = append(d.Emails, [2]string{subject, body})
	return nil
}

// DesktopEffects is a copy of what a Desktop recorded.
type DesktopEffects struct {
	Clipboard []string
	URLs      []string
	Paths     []string
	Emails    [][2]string
}

// Snapshot returns copies of the recorded effects.
func (d *Desktop) Snapshot() DesktopEffects {
	d.mu.Lock()
	defer d.mu.Unlock()
	return DesktopEffects{
		Clipboard: append([]string(nil), d.Clipboard...),
		URLs:      append([]string(nil), d.URLs...),
		Paths:     append([]string(nil), d.Paths...),
		Emails:    append([][2]string(nil), d.Emails...),
	}
}

// Errors records reported errors.
type Errors struct {
	mu     sync.Mutex
	Titles []string
	Errs   []error
}

func (e *Errors) ReportError(_ context.Context, title string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.Titles = append(e.Titles, title)
	e.Errs = append(e.Errs, err)
}

// Count returns the number of reported errors.
func (e *Errors) Count() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.Errs)
}
