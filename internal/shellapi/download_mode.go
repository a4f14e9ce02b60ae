package shellapi

import (
	"context"

	"shellsync/internal/logging"
	"shellsync/internal/wire"
)

func (a *API) downloadModeHandler(mode wire.DownloadMode) handlerFunc {
	return func(ctx context.Context, _ *Listener, req request) {
		a.setDownloadMode(ctx, req.path, mode)
	}
}

// handleSetDownloadMode accepts "<path>|<mode>"; see wire.ParseSetDownloadMode.
func (a *API) handleSetDownloadMode(ctx context.Context, _ *Listener, req request) {
	raw, mode, err := wire.ParseSetDownloadMode(req.arg)
	if err != nil {
		logging.WarnWithContext(logging.WithContext(ctx, a.logger), "malformed download mode command", "download_mode_invalid",
			logging.String("argument", req.arg),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "expected <path>|<0|1|OFFLINE|ONLINE>"),
			logging.String(logging.FieldImpact, "download mode unchanged"),
		)
		return
	}
	a.setDownloadMode(ctx, canonicalPath(raw), mode)
}

func (a *API) setDownloadMode(ctx context.Context, localPath string, mode wire.DownloadMode) {
	logger := logging.WithContext(ctx, a.logger)
	fd := a.resolve(localPath)
	if !fd.found {
		logger.Debug("download mode for unknown path ignored", logging.String(logging.FieldPath, localPath))
		return
	}
	if err := a.providers.DownloadModes.SetSyncMode(ctx, fd.folder, fd.relPath, mode); err != nil {
		logging.WarnWithContext(logger, "download mode not stored", "download_mode_store_failed",
			logging.String(logging.FieldPath, localPath),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the journal database"),
			logging.String(logging.FieldImpact, "download mode unchanged"),
		)
		return
	}
	logger.Info("download mode changed",
		logging.String(logging.FieldEventType, "download_mode_changed"),
		logging.String(logging.FieldFolder, fd.folder.Alias),
		logging.String(logging.FieldPath, localPath),
		logging.String("mode", mode.String()),
	)
}

func (a *API) handleGetDownloadMode(ctx context.Context, l *Listener, req request) {
	code := wire.CodeNOP
	if fd := a.resolve(req.path); fd.found {
		mode, err := a.providers.DownloadModes.SyncMode(ctx, fd.folder, fd.relPath)
		if err != nil {
			logging.WithContext(ctx, a.logger).Debug("download mode lookup failed", logging.Error(err))
			mode = wire.DownloadOnline
		}
		code = mode.String()
	}
	l.SendMessage(wire.BuildMessage(wire.VerbGetDownloadMode, req.arg, code))
}
