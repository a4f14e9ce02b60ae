package shellapi

import (
	"context"
	"mime"
	"path"
	"slices"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
)

// fileData is a client path resolved against the sync folders.
type fileData struct {
	localPath   string
	folder      syncstate.Folder
	found       bool
	relPath     string
	accountPath string
}

func (a *API) resolve(localPath string) fileData {
	fd := fileData{localPath: localPath}
	if localPath == "" {
		return fd
	}
	folder, ok := a.providers.Folders.FolderForPath(localPath)
	if !ok {
		return fd
	}
	rel, ok := folder.RelativePath(localPath)
	if !ok {
		return fd
	}
	fd.folder = folder
	fd.found = true
	fd.relPath = rel
	fd.accountPath = folder.AccountPath(rel)
	return fd
}

// record returns the journal record, treating lookup failures as unknown.
func (a *API) record(ctx context.Context, fd fileData) syncstate.Record {
	if !fd.found {
		return syncstate.Record{}
	}
	rec, err := a.providers.Journal.Record(ctx, fd.folder, fd.relPath)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, a.logger), "journal lookup failed", "journal_lookup_failed",
			logging.String(logging.FieldFolder, fd.folder.Alias),
			logging.String(logging.FieldPath, fd.localPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the journal database"),
			logging.String(logging.FieldImpact, "file treated as not yet synced"),
		)
		return syncstate.Record{}
	}
	return rec
}

func (a *API) fileStatus(ctx context.Context, fd fileData) syncstate.FileStatus {
	if !fd.found {
		return syncstate.FileStatus{}
	}
	status, err := a.providers.Status.FileStatus(ctx, fd.folder, fd.relPath)
	if err != nil {
		a.logger.Debug("status lookup failed",
			logging.String(logging.FieldPath, fd.localPath),
			logging.Error(err))
		return syncstate.FileStatus{}
	}
	return status
}

// mimeTypesFor lists candidate media types for a file, most specific first:
// the sniffed content type and its ancestors, then the type registered for
// the extension. Files that cannot be read fall back to the extension alone.
func mimeTypesFor(localPath string) []string {
	var types []string
	add := func(mt string) {
		if idx := strings.IndexByte(mt, ';'); idx >= 0 {
			mt = mt[:idx]
		}
		mt = strings.TrimSpace(mt)
		if mt == "" || slices.Contains(types, mt) {
			return
		}
		types = append(types, mt)
	}
	if detected, err := mimetype.DetectFile(localPath); err == nil {
		// The root type (application/octet-stream) matches every file.
		for mt := detected; mt != nil && mt.Parent() != nil; mt = mt.Parent() {
			add(mt.String())
		}
	}
	add(mime.TypeByExtension(path.Ext(localPath)))
	return types
}
