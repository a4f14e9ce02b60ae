package syncstate

import (
	"path"
	"strings"
)

// FolderStatus is the aggregate sync result of a folder.
type FolderStatus int

const (
	FolderUndefined FolderStatus = iota
	FolderNotYetStarted
	FolderSyncPrepare
	FolderSyncRunning
	FolderSyncAbortRequested
	FolderSuccess
	FolderProblem
	FolderError
	FolderSetupError
	FolderPaused
)

var folderStatusNames = map[FolderStatus]string{
	FolderUndefined:          "undefined",
	FolderNotYetStarted:      "not_yet_started",
	FolderSyncPrepare:        "preparing",
	FolderSyncRunning:        "syncing",
	FolderSyncAbortRequested: "abort_requested",
	FolderSuccess:            "success",
	FolderProblem:            "problem",
	FolderError:              "error",
	FolderSetupError:         "setup_error",
	FolderPaused:             "paused",
}

func (s FolderStatus) String() string {
	if name, ok := folderStatusNames[s]; ok {
		return name
	}
	return "undefined"
}

// ParseFolderStatus maps a status name back to its value.
func ParseFolderStatus(name string) (FolderStatus, bool) {
	for status, candidate := range folderStatusNames {
		if candidate == name {
			return status, true
		}
	}
	return FolderUndefined, false
}

// RefreshesView reports whether entering this status should make shell
// extensions redraw the folder. Transient states are excluded to bound
// refresh churn.
func (s FolderStatus) RefreshesView() bool {
	switch s {
	case FolderSyncPrepare, FolderSuccess, FolderPaused, FolderProblem, FolderError, FolderSetupError:
		return true
	default:
		return false
	}
}

// Folder pairs a local directory with a remote location.
type Folder struct {
	Alias string
	// Path is the local root in slash form without a trailing slash.
	Path string
	// RemotePath is the account-relative remote root, "/" for the account root.
	RemotePath string
	Connected  bool
	Paused     bool
	Status     FolderStatus
}

// CanSync reports whether the folder currently participates in syncing.
func (f Folder) CanSync() bool {
	return !f.Paused && f.Status != FolderSetupError
}

// RelativePath returns localPath relative to the folder root, "" for the
// root itself. ok is false when localPath lies outside the folder.
func (f Folder) RelativePath(localPath string) (rel string, ok bool) {
	if localPath == f.Path {
		return "", true
	}
	prefix := f.Path
	if !strings.HasSuffix(prefix, "/") {
		prefix += "/"
	}
	if !strings.HasPrefix(localPath, prefix) {
		return "", false
	}
	return localPath[len(prefix):], true
}

// AccountPath maps a folder-relative path to its account-relative remote
// path. The folder root maps to RemotePath itself.
func (f Folder) AccountPath(rel string) string {
	remote := f.RemotePath
	if remote == "" {
		remote = "/"
	}
	return path.Join(remote, rel)
}
