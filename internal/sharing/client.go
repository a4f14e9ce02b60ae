package sharing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"shellsync/internal/config"
	"shellsync/internal/logging"
	"shellsync/internal/syncstate"
)

var (
	// ErrNotConnected is returned when the folder's account is offline.
	ErrNotConnected = errors.New("sharing: account not connected")
	// ErrNoEditor is returned when no direct editor was selected.
	ErrNoEditor = errors.New("sharing: no direct editor")
	// ErrNoFileID is returned when a record carries no usable file id.
	ErrNoFileID = errors.New("sharing: record has no file id")
)

const (
	sharesEndpoint      = "ocs/v2.php/apps/files_sharing/api/v1/shares"
	directEditEndpoint  = "ocs/v2.php/apps/files/api/v1/directEditing/open"
	privateLinkTemplate = "%s/index.php/f/%d"
)

// HTTPDoer describes the HTTP client used to reach the server.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Client is an OCS client for one account.
type Client struct {
	baseURL  string
	user     string
	password string
	client   HTTPDoer
	editors  []syncstate.Editor
	logger   *slog.Logger
}

// NewClient builds a client for cfg's account and editors.
func NewClient(cfg *config.Config, logger *slog.Logger) *Client {
	timeout := time.Duration(cfg.Account.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	editors := make([]syncstate.Editor, 0, len(cfg.Editors))
	for _, e := range cfg.Editors {
		editors = append(editors, syncstate.Editor{
			ID:                e.ID,
			Name:              e.Name,
			MimeTypes:         e.MimeTypes,
			OptionalMimeTypes: e.OptionalMimeTypes,
		})
	}
	return NewHTTPClient(cfg.Account.URL, cfg.Account.User, cfg.Account.AppPassword,
		&http.Client{Timeout: timeout}, editors, logger)
}

// NewHTTPClient constructs a client with an explicit HTTP doer.
func NewHTTPClient(baseURL, user, password string, client HTTPDoer, editors []syncstate.Editor, logger *slog.Logger) *Client {
	return &Client{
		baseURL:  strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		user:     user,
		password: password,
		client:   client,
		editors:  editors,
		logger:   logging.NewComponentLogger(logger, "sharing"),
	}
}

// BaseURL returns the server root without a trailing slash.
func (c *Client) BaseURL() string { return c.baseURL }

type ocsMeta struct {
	Status     string `json:"status"`
	StatusCode int    `json:"statuscode"`
	Message    string `json:"message"`
}

type ocsEnvelope struct {
	OCS struct {
		Meta ocsMeta         `json:"meta"`
		Data json.RawMessage `json:"data"`
	} `json:"ocs"`
}

// OCSError is a non-success OCS reply.
type OCSError struct {
	HTTPStatus int
	StatusCode int
	Message    string
}

func (e *OCSError) Error() string {
	msg := strings.TrimSpace(e.Message)
	if msg == "" {
		msg = http.StatusText(e.HTTPStatus)
	}
	return fmt.Sprintf("server returned %d (ocs %d): %s", e.HTTPStatus, e.StatusCode, msg)
}

// do performs an OCS request and decodes ocs.data into out.
func (c *Client) do(ctx context.Context, method, endpoint string, params url.Values, out any) error {
	if c.baseURL == "" {
		return errors.New("sharing: account url not configured")
	}
	target := c.baseURL + "/" + endpoint
	var body io.Reader
	if method == http.MethodGet {
		if len(params) > 0 {
			target += "?" + params.Encode()
		}
	} else {
		body = strings.NewReader(params.Encode())
	}

	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build %s request: %w", endpoint, err)
	}
	req.Header.Set("OCS-APIREQUEST", "true")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	}
	if c.user != "" {
		req.SetBasicAuth(c.user, c.password)
	}

	start := time.Now()
	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, endpoint, err)
	}
	defer resp.Body.Close()

	var env ocsEnvelope
	decodeErr := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&env)
	c.logger.Debug("ocs request finished",
		logging.String("method", method),
		logging.String("endpoint", endpoint),
		logging.Int("status", resp.StatusCode),
		logging.Duration("elapsed", time.Since(start)),
	)
	if resp.StatusCode >= http.StatusMultipleChoices || (decodeErr == nil && env.OCS.Meta.Status == "failure") {
		return &OCSError{HTTPStatus: resp.StatusCode, StatusCode: env.OCS.Meta.StatusCode, Message: env.OCS.Meta.Message}
	}
	if decodeErr != nil {
		return fmt.Errorf("decode %s response: %w", endpoint, decodeErr)
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(env.OCS.Data, out); err != nil {
		return fmt.Errorf("decode %s data: %w", endpoint, err)
	}
	return nil
}
