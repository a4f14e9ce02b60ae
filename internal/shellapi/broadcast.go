package shellapi

import (
	"context"

	"shellsync/internal/bloom"
	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// Broadcast sends msg to every live listener regardless of interest.
func (a *API) Broadcast(msg string) int {
	sent := 0
	for _, l := range a.registry.Snapshot() {
		if l.post(msg) {
			sent++
		}
	}
	return sent
}

// broadcastFiltered sends msg to listeners that may have queried dir.
func (a *API) broadcastFiltered(msg, dir string) {
	hash := bloom.HashPath(dir)
	for _, l := range a.registry.Snapshot() {
		l.postIfMonitored(msg, hash)
	}
}

// RegisterFolder announces a folder to every client. Repeated calls for an
// already announced folder do nothing.
func (a *API) RegisterFolder(alias string) bool {
	folder, ok := a.providers.Folders.Folder(alias)
	if !ok || !folder.CanSync() {
		return false
	}
	a.mu.Lock()
	if _, done := a.registered[alias]; done {
		a.mu.Unlock()
		return false
	}
	a.registered[alias] = folder.Path
	a.mu.Unlock()

	a.Broadcast(wire.BuildMessage(wire.VerbRegisterPath, folder.Path, ""))
	a.Broadcast(wire.BuildMessage(wire.VerbRegisterDriveFS, a.drivePath(folder), ""))
	a.logger.Info("folder registered",
		logging.String(logging.FieldEventType, "folder_registered"),
		logging.String(logging.FieldFolder, alias),
		logging.String(logging.FieldPath, folder.Path),
	)
	return true
}

// UnregisterFolder tells clients to forget a previously announced folder.
func (a *API) UnregisterFolder(alias string) bool {
	a.mu.Lock()
	root, ok := a.registered[alias]
	delete(a.registered, alias)
	a.mu.Unlock()
	if !ok {
		return false
	}
	a.Broadcast(wire.BuildMessage(wire.VerbUnregisterPath, root, ""))
	a.logger.Info("folder unregistered",
		logging.String(logging.FieldEventType, "folder_unregistered"),
		logging.String(logging.FieldFolder, alias),
		logging.String(logging.FieldPath, root),
	)
	return true
}

// NotifyFolderStatusChanged refreshes clients after a folder's aggregate
// status changed. Only statuses that change what the file manager shows
// produce UPDATE_VIEW; transient ones are ignored.
func (a *API) NotifyFolderStatusChanged(ctx context.Context, folder syncstate.Folder) bool {
	if a.registry.Len() == 0 || !folder.Status.RefreshesView() {
		return false
	}
	status, err := a.providers.Status.FileStatus(ctx, folder, "")
	if err == nil {
		a.broadcastFiltered(wire.BuildMessage(wire.VerbStatus, folder.Path, status.SocketString()), parentDir(folder.Path))
	}
	a.Broadcast(wire.BuildMessage(wire.VerbUpdateView, folder.Path, ""))
	return true
}

// NotifyFileStatusChanged pushes a file's new status to clients that have
// shown interest in its directory.
func (a *API) NotifyFileStatusChanged(localPath string, status syncstate.FileStatus) {
	canonical := canonicalPath(localPath)
	if canonical == "" || a.registry.Len() == 0 {
		return
	}
	a.broadcastFiltered(wire.BuildMessage(wire.VerbStatus, canonical, status.SocketString()), parentDir(canonical))
}
