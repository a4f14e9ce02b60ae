package sharing

import (
	"context"
	"net/url"

	"shellsync/internal/shellapi"
)

// URLOpener opens a URL in the user's browser.
type URLOpener interface {
	OpenURL(url string) error
}

// BrowserShareUI shows the server's sharing sidebar for a file in the
// browser in place of a native dialog.
type BrowserShareUI struct {
	client *Client
	opener URLOpener
}

// NewBrowserShareUI returns a share dialog backed by the web interface.
func NewBrowserShareUI(client *Client, opener URLOpener) *BrowserShareUI {
	return &BrowserShareUI{client: client, opener: opener}
}

// ShowShareDialog opens the file's private link with the sharing tab
// selected.
func (u *BrowserShareUI) ShowShareDialog(ctx context.Context, req shellapi.ShareRequest) error {
	link, err := u.client.PrivateLink(ctx, req.Folder, req.AccountPath, req.Record)
	if err != nil {
		return err
	}
	return u.opener.OpenURL(link + "?" + url.Values{"details": {"sharing"}, "tab": {req.Page.String()}}.Encode())
}
