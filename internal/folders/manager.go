package folders

import (
	"context"
	"log/slog"
	"path"
	"strings"
	"sync"

	"shellsync/internal/config"
	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
)

// Observer is told about folder changes. *shellapi.API implements it.
type Observer interface {
	RegisterFolder(alias string) bool
	UnregisterFolder(alias string) bool
	NotifyFolderStatusChanged(ctx context.Context, folder syncstate.Folder) bool
}

// Manager is the in-memory folder set built from configuration.
type Manager struct {
	logger *slog.Logger

	mu        sync.RWMutex
	folders   []syncstate.Folder
	caps      syncstate.Capabilities
	connected bool
}

// NewManager builds a manager from cfg. Paused folders start as Paused, the
// rest as NotYetStarted until the sync engine reports otherwise.
func NewManager(cfg *config.Config, logger *slog.Logger) *Manager {
	m := &Manager{logger: logging.NewComponentLogger(logger, "folders")}
	m.Apply(cfg)
	return m
}

func foldersFromConfig(cfg *config.Config) []syncstate.Folder {
	out := make([]syncstate.Folder, 0, len(cfg.Folders))
	for _, f := range cfg.Folders {
		status := syncstate.FolderNotYetStarted
		if f.Paused {
			status = syncstate.FolderPaused
		}
		out = append(out, syncstate.Folder{
			Alias:      f.Alias,
			Path:       cleanLocal(f.LocalPath),
			RemotePath: f.RemotePath,
			Connected:  cfg.Account.Connected,
			Paused:     f.Paused,
			Status:     status,
		})
	}
	return out
}

func capabilitiesFromConfig(cfg *config.Config) syncstate.Capabilities {
	return syncstate.Capabilities{
		ShareAPI:         cfg.Capabilities.ShareAPI,
		PublicLink:       cfg.Capabilities.PublicLink,
		EnforceExpiry:    cfg.Capabilities.EnforceExpiry,
		EnforcePassword:  cfg.Capabilities.EnforcePassword,
		UserGroupSharing: cfg.Capabilities.UserGroupSharing,
	}
}

func cleanLocal(p string) string {
	if p == "" {
		return ""
	}
	return path.Clean(strings.ReplaceAll(p, "\\", "/"))
}

// SyncableFolders returns every configured folder in configuration order.
// Callers filter with Folder.CanSync.
func (m *Manager) SyncableFolders() []syncstate.Folder {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]syncstate.Folder(nil), m.folders...)
}

// FolderForPath returns the folder whose root is the longest prefix of
// localPath on a path boundary.
func (m *Manager) FolderForPath(localPath string) (syncstate.Folder, bool) {
	localPath = cleanLocal(localPath)
	m.mu.RLock()
	defer m.mu.RUnlock()

	var best syncstate.Folder
	found := false
	for _, f := range m.folders {
		if !contains(f.Path, localPath) {
			continue
		}
		if !found || len(f.Path) > len(best.Path) {
			best, found = f, true
		}
	}
	return best, found
}

func contains(root, p string) bool {
	switch {
	case root == "":
		return false
	case root == "/":
		return strings.HasPrefix(p, "/")
	default:
		return p == root || strings.HasPrefix(p, root+"/")
	}
}

// Folder looks a folder up by alias.
func (m *Manager) Folder(alias string) (syncstate.Folder, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if i := m.index(alias); i >= 0 {
		return m.folders[i], true
	}
	return syncstate.Folder{}, false
}

// Capabilities returns the account capabilities; every folder belongs to
// the one configured account.
func (m *Manager) Capabilities(syncstate.Folder) syncstate.Capabilities {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.caps
}

// Connected reports whether the account is reachable.
func (m *Manager) Connected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

func (m *Manager) index(alias string) int {
	for i, f := range m.folders {
		if f.Alias == alias {
			return i
		}
	}
	return -1
}

// SetStatus records a folder's aggregate status. It returns the updated
// folder and whether the status changed.
func (m *Manager) SetStatus(alias string, status syncstate.FolderStatus) (syncstate.Folder, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.index(alias)
	if i < 0 {
		return syncstate.Folder{}, false
	}
	if m.folders[i].Status == status {
		return m.folders[i], false
	}
	m.folders[i].Status = status
	m.logger.Debug("folder status changed",
		logging.String(logging.FieldFolder, alias),
		logging.String("status", status.String()),
	)
	return m.folders[i], true
}

// Changes lists what Apply altered.
type Changes struct {
	Added   []syncstate.Folder
	Removed []syncstate.Folder
	// Updated folders kept their alias and root but changed pause state or
	// connectivity.
	Updated []syncstate.Folder
}

// Empty reports whether nothing changed.
func (c Changes) Empty() bool {
	return len(c.Added) == 0 && len(c.Removed) == 0 && len(c.Updated) == 0
}

// Apply replaces the folder set with cfg's. Known folders keep their sync
// status unless their pause state flipped; a resumed folder restarts in
// SyncPrepare.
func (m *Manager) Apply(cfg *config.Config) Changes {
	next := foldersFromConfig(cfg)

	m.mu.Lock()
	defer m.mu.Unlock()

	var changes Changes
	seen := make(map[string]bool, len(next))
	for i := range next {
		nf := &next[i]
		seen[nf.Alias] = true
		j := m.index(nf.Alias)
		if j < 0 {
			changes.Added = append(changes.Added, *nf)
			continue
		}
		old := m.folders[j]
		if old.Path != nf.Path || old.RemotePath != nf.RemotePath {
			changes.Removed = append(changes.Removed, old)
			changes.Added = append(changes.Added, *nf)
			continue
		}
		switch {
		case old.Paused && !nf.Paused:
			nf.Status = syncstate.FolderSyncPrepare
		case !nf.Paused:
			nf.Status = old.Status
		}
		if old.Paused != nf.Paused || old.Connected != nf.Connected {
			changes.Updated = append(changes.Updated, *nf)
		}
	}
	for _, old := range m.folders {
		if !seen[old.Alias] {
			changes.Removed = append(changes.Removed, old)
		}
	}

	m.folders = next
	m.caps = capabilitiesFromConfig(cfg)
	m.connected = cfg.Account.Connected
	return changes
}

// Announce registers every syncable folder with obs. Called once at startup
// so later removals can be announced.
func (m *Manager) Announce(obs Observer) {
	for _, f := range m.SyncableFolders() {
		if f.CanSync() {
			obs.RegisterFolder(f.Alias)
		}
	}
}

// Publish tells obs about changes returned by Apply.
func Publish(ctx context.Context, obs Observer, changes Changes) {
	for _, f := range changes.Removed {
		obs.UnregisterFolder(f.Alias)
	}
	for _, f := range changes.Added {
		if f.CanSync() {
			obs.RegisterFolder(f.Alias)
		}
	}
	for _, f := range changes.Updated {
		if !f.CanSync() {
			obs.UnregisterFolder(f.Alias)
			obs.NotifyFolderStatusChanged(ctx, f)
			continue
		}
		obs.RegisterFolder(f.Alias)
		obs.NotifyFolderStatusChanged(ctx, f)
	}
}

// StatusFromRoot maps the file status of a folder root to the folder's
// aggregate status.
func StatusFromRoot(status syncstate.FileStatus) syncstate.FolderStatus {
	switch status.Tag {
	case syncstate.StatusSync, syncstate.StatusNew:
		return syncstate.FolderSyncRunning
	case syncstate.StatusUpToDate:
		return syncstate.FolderSuccess
	case syncstate.StatusWarning, syncstate.StatusExcluded:
		return syncstate.FolderProblem
	case syncstate.StatusError:
		return syncstate.FolderError
	default:
		return syncstate.FolderUndefined
	}
}
