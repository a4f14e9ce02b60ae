package sharing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
)

// ContextMenuShareName labels the public link created from the context menu
// so later requests reuse it instead of piling up links.
const ContextMenuShareName = "Context menu share"

const shareTypePublicLink = 3

type share struct {
	ID        flexibleID `json:"id"`
	ShareType int        `json:"share_type"`
	Label     string     `json:"label"`
	Name      string     `json:"name"`
	URL       string     `json:"url"`
}

// flexibleID accepts ids sent as numbers or strings.
type flexibleID string

func (id *flexibleID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		s, err := strconv.Unquote(string(data))
		if err != nil {
			return err
		}
		*id = flexibleID(s)
		return nil
	}
	*id = flexibleID(data)
	return nil
}

func (s share) isContextMenuLink() bool {
	if s.ShareType != shareTypePublicLink {
		return false
	}
	return s.Label == ContextMenuShareName || s.Name == ContextMenuShareName
}

// FetchOrCreatePublicLink returns the URL of the context menu public link
// for accountPath, creating the share when none exists yet.
func (c *Client) FetchOrCreatePublicLink(ctx context.Context, folder syncstate.Folder, accountPath string) (string, error) {
	if !folder.Connected {
		return "", ErrNotConnected
	}

	var shares []share
	params := url.Values{"path": {accountPath}, "reshares": {"true"}}
	if err := c.do(ctx, http.MethodGet, sharesEndpoint, params, &shares); err != nil {
		return "", fmt.Errorf("fetch shares: %w", err)
	}
	for _, s := range shares {
		if s.isContextMenuLink() && s.URL != "" {
			c.logger.Debug("reusing public link", logging.String(logging.FieldPath, accountPath))
			return s.URL, nil
		}
	}

	var created share
	params = url.Values{
		"path":      {accountPath},
		"shareType": {strconv.Itoa(shareTypePublicLink)},
		"label":     {ContextMenuShareName},
		"name":      {ContextMenuShareName},
	}
	if err := c.do(ctx, http.MethodPost, sharesEndpoint, params, &created); err != nil {
		return "", fmt.Errorf("create public link: %w", err)
	}
	if created.URL == "" {
		return "", fmt.Errorf("create public link: server returned no url")
	}
	c.logger.Info("public link created",
		logging.String(logging.FieldEventType, "public_link_created"),
		logging.String(logging.FieldPath, accountPath),
	)
	return created.URL, nil
}

// PrivateLink returns the permanent internal link of a synced file. It is
// derived from the numeric file id, so no request is made.
func (c *Client) PrivateLink(_ context.Context, folder syncstate.Folder, _ string, rec syncstate.Record) (string, error) {
	if !folder.Connected {
		return "", ErrNotConnected
	}
	id := rec.NumericFileID
	if id <= 0 {
		id = numericPrefix(rec.FileID)
	}
	if id <= 0 {
		return "", ErrNoFileID
	}
	return fmt.Sprintf(privateLinkTemplate, c.baseURL, id), nil
}

// numericPrefix extracts the leading decimal digits of a server file id
// such as "00000042ocabc123".
func numericPrefix(fileID string) int64 {
	end := 0
	for end < len(fileID) && fileID[end] >= '0' && fileID[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0
	}
	n, err := strconv.ParseInt(fileID[:end], 10, 64)
	if err != nil {
		return 0
	}
	return n
}
