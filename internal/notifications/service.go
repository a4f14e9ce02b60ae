package notifications

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"shellsync/internal/config"
	"shellsync/internal/logging"
)

const userAgent = "shellsync/0.1.0"

// Service defines the notification surface used by the daemon.
type Service interface {
	NotifyError(ctx context.Context, title string, err error) error
	NotifySocketUnavailable(ctx context.Context, socketPath string, err error) error
	TestNotification(ctx context.Context) error
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	topic := strings.TrimSpace(cfg.Notifications.NtfyTopic)
	if topic == "" {
		return noopService{}
	}

	timeout := time.Duration(cfg.Notifications.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &ntfyService{
		endpoint: topic,
		client:   &http.Client{Timeout: timeout},
	}
}

type payload struct {
	title    string
	message  string
	tags     []string
	priority string
}

type ntfyService struct {
	endpoint string
	client   *http.Client
}

func (n *ntfyService) NotifyError(ctx context.Context, title string, err error) error {
	title = strings.TrimSpace(title)
	if title == "" {
		title = "Error"
	}
	message := "unknown error"
	if err != nil {
		message = strings.TrimSpace(err.Error())
	}
	return n.send(ctx, payload{
		title:    "shellsync - " + title,
		message:  message,
		tags:     []string{"shellsync", "error"},
		priority: "high",
	})
}

func (n *ntfyService) NotifySocketUnavailable(ctx context.Context, socketPath string, err error) error {
	message := fmt.Sprintf("File manager integration is unavailable: could not listen on %s", socketPath)
	if err != nil {
		message += "\n" + strings.TrimSpace(err.Error())
	}
	return n.send(ctx, payload{
		title:    "shellsync - Socket Unavailable",
		message:  message,
		tags:     []string{"shellsync", "socket", "warning"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "shellsync - Test",
		message:  "Notification system test",
		tags:     []string{"shellsync", "test"},
		priority: "low",
	})
}

func (n *ntfyService) send(ctx context.Context, data payload) error {
	if n == nil || n.client == nil {
		return nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.endpoint, strings.NewReader(data.message))
	if err != nil {
		return fmt.Errorf("build ntfy request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	req.Header.Set("Content-Type", "text/plain; charset=utf-8")
	if data.title != "" {
		req.Header.Set("Title", data.title)
	}
	if len(data.tags) > 0 {
		req.Header.Set("Tags", strings.Join(data.tags, ","))
	}
	if data.priority != "" && data.priority != "default" {
		req.Header.Set("Priority", data.priority)
	}

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("send ntfy notification: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		return fmt.Errorf("ntfy returned %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	return nil
}

type noopService struct{}

func (noopService) NotifyError(context.Context, string, error) error             { return nil }
func (noopService) NotifySocketUnavailable(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                       { return nil }

// Reporter adapts a Service to the socket API's error reporting. Delivery
// failures are logged and otherwise ignored.
type Reporter struct {
	service Service
	logger  *slog.Logger
}

// NewReporter wraps service.
func NewReporter(service Service, logger *slog.Logger) *Reporter {
	return &Reporter{service: service, logger: logging.NewComponentLogger(logger, "notifications")}
}

// ReportError publishes a user-facing error.
func (r *Reporter) ReportError(ctx context.Context, title string, err error) {
	if r == nil || r.service == nil {
		return
	}
	if sendErr := r.service.NotifyError(ctx, title, err); sendErr != nil {
		logging.WarnWithContext(r.logger, "error notification not delivered", "notification_failed",
			logging.String("title", title),
			logging.Error(sendErr),
			logging.String(logging.FieldErrorHint, "check notifications.ntfy_topic and network access"),
			logging.String(logging.FieldImpact, "user was not told about the failed action"),
		)
	}
}
