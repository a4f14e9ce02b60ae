package shellapi

import (
	"context"
	"strings"

	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

func (a *API) shareHandler(page SharePage) handlerFunc {
	return func(ctx context.Context, l *Listener, req request) {
		fd := a.resolve(req.path)
		rec := a.record(ctx, fd)
		code := a.shareCode(fd, rec)
		l.SendMessage(wire.BuildMessage(wire.VerbShare, req.arg, code))
		if code != wire.CodeOK {
			return
		}
		share := ShareRequest{
			Folder:      fd.folder,
			LocalPath:   fd.localPath,
			AccountPath: fd.accountPath,
			Record:      rec,
			Page:        page,
		}
		a.runAsync(ctx, l, a.labels.shareError, func(ctx context.Context) (func() error, error) {
			return func() error { return a.providers.ShareUI.ShowShareDialog(ctx, share) }, nil
		})
	}
}

func (a *API) shareCode(fd fileData, rec syncstate.Record) string {
	switch {
	case !fd.found:
		return wire.CodeNOP
	case !fd.folder.Connected:
		return wire.CodeNotConnected
	case !a.providers.Capabilities.Capabilities(fd.folder).SharingEnabled():
		return wire.CodeNOP
	case !rec.Valid:
		return wire.CodeNotSynced
	case fd.accountPath == "/":
		return wire.CodeCannotShareRoot
	default:
		return wire.CodeOK
	}
}

func (a *API) handleShareStatus(ctx context.Context, l *Listener, req request) {
	code := wire.CodeNOP
	if fd := a.resolve(req.path); fd.found {
		code = a.shareStatusCode(ctx, fd)
	}
	l.SendMessage(wire.BuildMessage(wire.VerbShareStatus, req.arg, code))
}

func (a *API) shareStatusCode(ctx context.Context, fd fileData) string {
	if a.fileStatus(ctx, fd).Tag != syncstate.StatusUpToDate {
		return wire.CodeNotSynced
	}
	caps := a.providers.Capabilities.Capabilities(fd.folder)
	if !caps.ShareAPI {
		return wire.CodeDisabled
	}
	var available []string
	if caps.UserGroupSharing {
		available = append(available, wire.ShareUserGroup)
	}
	if caps.PublicLink {
		available = append(available, wire.ShareLink)
	}
	if len(available) == 0 {
		return wire.CodeDisabled
	}
	return strings.Join(available, ",")
}

func (a *API) handleCopyPublicLink(ctx context.Context, l *Listener, req request) {
	fd := a.resolve(req.path)
	if !fd.found || !a.record(ctx, fd).Valid {
		return
	}
	a.runAsync(ctx, l, a.labels.publicLinkError, func(ctx context.Context) (func() error, error) {
		link, err := a.providers.Links.FetchOrCreatePublicLink(ctx, fd.folder, fd.accountPath)
		if err != nil {
			return nil, err
		}
		return func() error { return a.copyLink(link) }, nil
	})
}

func (a *API) privateLinkHandler(use func(link string) error) handlerFunc {
	return func(ctx context.Context, l *Listener, req request) {
		fd := a.resolve(req.path)
		if !fd.found {
			return
		}
		rec := a.record(ctx, fd)
		if !rec.Valid {
			return
		}
		a.runAsync(ctx, l, a.labels.privateLinkError, func(ctx context.Context) (func() error, error) {
			link, err := a.providers.Links.PrivateLink(ctx, fd.folder, fd.accountPath, rec)
			if err != nil {
				return nil, err
			}
			return func() error { return use(link) }, nil
		})
	}
}

func (a *API) copyLink(link string) error {
	return a.providers.Desktop.CopyToClipboard(link)
}

func (a *API) emailLink(link string) error {
	return a.providers.Desktop.ComposeEmail(a.labels.emailSubject, link)
}

func (a *API) openLink(link string) error {
	return a.providers.Desktop.OpenURL(link)
}

func (a *API) handleEdit(ctx context.Context, l *Listener, req request) {
	fd := a.resolve(req.path)
	if !fd.found {
		logging.WithContext(ctx, a.logger).Warn("unknown path for edit",
			logging.String(logging.FieldPath, req.arg),
			logging.String(logging.FieldEventType, "edit_unknown_path"))
		return
	}
	rec := a.record(ctx, fd)
	if !rec.Valid {
		return
	}
	editor, ok := a.directEditor(fd)
	if !ok {
		return
	}
	a.runAsync(ctx, l, a.labels.editError, func(ctx context.Context) (func() error, error) {
		url, err := a.providers.Editors.RequestEditURL(ctx, fd.folder, editor, fd.accountPath, rec)
		if err != nil {
			return nil, err
		}
		return func() error { return a.providers.Desktop.OpenURL(url) }, nil
	})
}

// directEditor finds an editor for the file's media type. Editors are only
// offered while the folder's account is connected.
func (a *API) directEditor(fd fileData) (syncstate.Editor, bool) {
	if !fd.found || !fd.folder.Connected {
		return syncstate.Editor{}, false
	}
	for _, mimeType := range mimeTypesFor(fd.localPath) {
		if editor, ok := a.providers.Editors.DirectEditorFor(fd.folder, mimeType); ok {
			return editor, true
		}
	}
	return syncstate.Editor{}, false
}
