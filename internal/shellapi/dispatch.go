package shellapi

import (
	"context"
	"path/filepath"
	"strings"

	"shellsync/internal/logging"
	"shellsync/internal/wire"
)

type request struct {
	verb wire.Verb
	// arg is the argument as received, echoed back in replies.
	arg string
	// path is the canonical form of arg for path-taking commands.
	path string
}

type handlerFunc func(ctx context.Context, l *Listener, req request)

type command struct {
	handle    handlerFunc
	takesPath bool
}

func (a *API) commandTable() map[wire.Verb]command {
	byPath := func(h handlerFunc) command { return command{handle: h, takesPath: true} }
	raw := func(h handlerFunc) command { return command{handle: h} }
	return map[wire.Verb]command{
		wire.VerbVersion:              raw(a.handleVersion),
		wire.VerbRetrieveFileStatus:   byPath(a.handleRetrieveStatus),
		wire.VerbRetrieveFolderStatus: byPath(a.handleRetrieveStatus),
		wire.VerbShare:                byPath(a.shareHandler(SharePageUsers)),
		wire.VerbManagePublicLinks:    byPath(a.shareHandler(SharePagePublicLinks)),
		wire.VerbShareStatus:          byPath(a.handleShareStatus),
		wire.VerbShareMenuTitle:       raw(a.handleShareMenuTitle),
		wire.VerbCopyPublicLink:       byPath(a.handleCopyPublicLink),
		wire.VerbCopyPrivateLink:      byPath(a.privateLinkHandler(a.copyLink)),
		wire.VerbEmailPrivateLink:     byPath(a.privateLinkHandler(a.emailLink)),
		wire.VerbOpenPrivateLink:      byPath(a.privateLinkHandler(a.openLink)),
		wire.VerbEdit:                 byPath(a.handleEdit),
		wire.VerbGetStrings:           raw(a.handleGetStrings),
		wire.VerbGetMenuItems:         raw(a.handleGetMenuItems),
		wire.VerbOnlineDownloadMode:   byPath(a.downloadModeHandler(wire.DownloadOnline)),
		wire.VerbOfflineDownloadMode:  byPath(a.downloadModeHandler(wire.DownloadOffline)),
		wire.VerbSetDownloadMode:      raw(a.handleSetDownloadMode),
		wire.VerbGetDownloadMode:      byPath(a.handleGetDownloadMode),
		wire.VerbCopyAsPath:           byPath(a.handleCopyAsPath),
		wire.VerbOpen:                 byPath(a.openPathHandler(false)),
		wire.VerbOpenNewWindow:        byPath(a.openPathHandler(true)),
	}
}

// HandleLine dispatches one normalized inbound line from conn. Unknown
// connections and verbs are logged and dropped.
func (a *API) HandleLine(ctx context.Context, conn Conn, line string) {
	l := a.registry.Find(conn)
	if l == nil {
		a.logger.Warn("message from unregistered connection dropped",
			logging.String(logging.FieldEventType, "unregistered_connection"))
		return
	}
	cmd := wire.ParseCommand(line)
	ctx = logging.WithConnectionID(ctx, l.id)
	ctx = logging.WithVerb(ctx, string(cmd.Verb))
	logger := logging.WithContext(ctx, a.logger)
	logger.Debug("socket message received", logging.String("message", line))

	entry, ok := a.commands[cmd.Verb]
	if !ok {
		logging.WarnWithContext(logger, "unsupported socket command", "unsupported_command",
			logging.String(logging.FieldErrorHint, "shell extension may be newer than this daemon"),
			logging.String(logging.FieldImpact, "command ignored"),
		)
		return
	}
	req := request{verb: cmd.Verb, arg: cmd.Argument}
	if entry.takesPath {
		req.path = canonicalPath(cmd.Argument)
	}
	entry.handle(ctx, l, req)
}

// canonicalPath cleans a client path into slash form without a trailing
// separator. Every handler works on this form; replies echo the raw argument.
func canonicalPath(raw string) string {
	if raw == "" {
		return ""
	}
	return filepath.ToSlash(filepath.Clean(raw))
}

// parentDir returns the directory containing a canonical path.
func parentDir(p string) string {
	idx := strings.LastIndex(p, "/")
	switch {
	case idx < 0:
		return ""
	case idx == 0:
		return "/"
	default:
		return p[:idx]
	}
}
