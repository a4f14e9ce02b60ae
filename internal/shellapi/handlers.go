package shellapi

import (
	"context"

	"shellsync/internal/bloom"
	"shellsync/internal/wire"
)

func (a *API) handleVersion(_ context.Context, l *Listener, _ request) {
	l.SendMessage(wire.Join(wire.VerbVersion, a.opts.AppVersion, wire.ProtocolVersion))
}

// handleRetrieveStatus answers with the file status and remembers the
// containing directory so later pushes for its siblings reach this client.
func (a *API) handleRetrieveStatus(ctx context.Context, l *Listener, req request) {
	status := wire.CodeNOP
	fd := a.resolve(req.path)
	if fd.found {
		l.RegisterMonitoredDirectory(bloom.HashPath(parentDir(fd.localPath)))
		status = a.fileStatus(ctx, fd).SocketString()
	}
	l.SendMessage(wire.BuildMessage(wire.VerbStatus, req.arg, status))
}

func (a *API) handleGetStrings(_ context.Context, l *Listener, req request) {
	l.SendMessage(wire.Join(wire.VerbGetStrings, wire.CodeBegin))
	for _, pair := range a.labels.strings {
		if req.arg == "" || req.arg == pair[0] {
			l.SendMessage(wire.Join(wire.VerbString, pair[0], pair[1]))
		}
	}
	l.SendMessage(wire.Join(wire.VerbGetStrings, wire.CodeEnd))
}

func (a *API) handleShareMenuTitle(_ context.Context, l *Listener, _ request) {
	l.SendMessage(wire.Join(wire.VerbShareMenuTitle, a.labels.shareWith))
	l.SendMessage(wire.Join(wire.VerbStreamSubmenuTitle, a.labels.streamSubmenu))
	l.SendMessage(wire.Join(wire.VerbStreamOfflineTitle, a.labels.streamOffline))
	l.SendMessage(wire.Join(wire.VerbStreamOnlineItemTitle, a.labels.streamOnline))
}
