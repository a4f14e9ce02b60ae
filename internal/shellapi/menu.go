package shellapi

import (
	"context"

	"shellsync/internal/syncstate"
	"shellsync/internal/wire"
)

// handleGetMenuItems lists the context menu entries for a file. A
// multi-selection resolves to no file at all, so every entry is disabled.
func (a *API) handleGetMenuItems(ctx context.Context, l *Listener, req request) {
	l.SendMessage(wire.Join(wire.VerbGetMenuItems, wire.CodeBegin))

	var fd fileData
	if !wire.IsMultiSelection(req.arg) {
		fd = a.resolve(canonicalPath(req.arg))
	}
	rec := a.record(ctx, fd)
	enabled := rec.Valid && !rec.IsE2E()

	l.SendMessage(wire.MenuItem(string(wire.VerbOfflineDownloadMode), enabled, a.labels.offline))
	l.SendMessage(wire.MenuItem(string(wire.VerbOnlineDownloadMode), enabled, a.labels.online))
	l.SendMessage(wire.MenuItem(string(wire.VerbShare), enabled, a.labels.share))

	if fd.found && fd.folder.Connected {
		if _, ok := a.directEditor(fd); ok {
			l.SendMessage(wire.MenuItem(string(wire.VerbEdit), enabled, a.labels.edit))
		} else {
			l.SendMessage(wire.MenuItem(string(wire.VerbOpenPrivateLink), enabled, a.labels.openInBrowser))
		}
		a.sendSharingItems(l, a.providers.Capabilities.Capabilities(fd.folder), rec, enabled)
	}

	l.SendMessage(wire.Join(wire.VerbGetMenuItems, wire.CodeEnd))
}

// sendSharingItems adds the link entries. SHARE itself is always listed
// earlier in the menu, so it is not repeated here.
func (a *API) sendSharingItems(l *Listener, caps syncstate.Capabilities, rec syncstate.Record, enabled bool) {
	if !caps.SharingEnabled() {
		return
	}
	if rec.Valid && !rec.CanReshare() {
		l.SendMessage(wire.MenuItem(wire.CodeDisabled, false, a.labels.reshareForbidden))
	} else {
		switch {
		case caps.CanCreateDefaultPublicLink():
			l.SendMessage(wire.MenuItem(string(wire.VerbCopyPublicLink), enabled, a.labels.copyPublicLink))
		case caps.PublicLink:
			l.SendMessage(wire.MenuItem(string(wire.VerbManagePublicLinks), enabled, a.labels.copyPublicLink))
		}
	}
	l.SendMessage(wire.MenuItem(string(wire.VerbCopyPrivateLink), enabled, a.labels.copyPrivateLink))
}
