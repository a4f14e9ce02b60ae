package sharing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"shellsync/internal/syncstate"
)

// DirectEditorFor returns the first configured editor handling mimeType.
// Primary mime types win over optional ones.
func (c *Client) DirectEditorFor(_ syncstate.Folder, mimeType string) (syncstate.Editor, bool) {
	for _, e := range c.editors {
		for _, mt := range e.MimeTypes {
			if mt == mimeType {
				return e, true
			}
		}
	}
	for _, e := range c.editors {
		if e.Handles(mimeType) {
			return e, true
		}
	}
	return syncstate.Editor{}, false
}

// RequestEditURL asks the server for a direct editing session URL.
func (c *Client) RequestEditURL(ctx context.Context, folder syncstate.Folder, editor syncstate.Editor, accountPath string, _ syncstate.Record) (string, error) {
	if !folder.Connected {
		return "", ErrNotConnected
	}
	if editor.ID == "" {
		return "", ErrNoEditor
	}
	var data struct {
		URL string `json:"url"`
	}
	params := url.Values{"path": {accountPath}, "editorId": {editor.ID}}
	if err := c.do(ctx, http.MethodPost, directEditEndpoint, params, &data); err != nil {
		return "", fmt.Errorf("open direct editor: %w", err)
	}
	if data.URL == "" {
		return "", fmt.Errorf("open direct editor: server returned no url")
	}
	return data.URL, nil
}
