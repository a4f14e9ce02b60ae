package shellapi

import (
	"context"

	"shellsync/internal/wire"
)

func (a *API) handleCopyAsPath(ctx context.Context, l *Listener, req request) {
	if req.path == "" {
		return
	}
	native := wire.NativePath(req.path)
	a.runAsync(ctx, l, "Copy path", func(context.Context) (func() error, error) {
		return func() error { return a.providers.Desktop.CopyToClipboard(native) }, nil
	})
}

func (a *API) openPathHandler(newWindow bool) handlerFunc {
	return func(ctx context.Context, l *Listener, req request) {
		if req.path == "" {
			return
		}
		native := wire.NativePath(req.path)
		a.runAsync(ctx, l, "Open", func(context.Context) (func() error, error) {
			return func() error { return a.providers.Desktop.OpenPath(native, newWindow) }, nil
		})
	}
}
