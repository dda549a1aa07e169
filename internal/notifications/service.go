package notifications

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"folio/internal/config"
)

const userAgent = "folio/0.1"

// Service defines the notification surface used by the CLI.
type Service interface {
	NotifyPublished(ctx context.Context, album Published) error
	NotifyPublishFailed(ctx context.Context, albumTitle string, err error) error
	TestNotification(ctx context.Context) error
}

// Published summarizes a successful publish.
type Published struct {
	Title       string
	Destination string
	Images      int
	Copied      int
	Duration    time.Duration
}

// NewService builds a notification service backed by ntfy when configured.
// When no ntfy topic is configured, a noop implementation is returned.
func NewService(cfg *config.Config) Service {
	if cfg == nil {
		return noopService{}
	}
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

// Enabled reports whether svc delivers anything.
func Enabled(svc Service) bool {
	_, noop := svc.(noopService)
	return svc != nil && !noop
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

func (n *ntfyService) NotifyPublished(ctx context.Context, album Published) error {
	title := strings.TrimSpace(album.Title)
	message := fmt.Sprintf("Published %s: %d images (%d copied) to %s",
		title, album.Images, album.Copied, strings.TrimSpace(album.Destination))
	if d := album.Duration.Round(time.Second); d > 0 {
		message = fmt.Sprintf("%s in %s", message, d)
	}
	return n.send(ctx, payload{
		title:   "folio - Published",
		message: message,
		tags:    []string{"folio", "publish", "completed"},
	})
}

func (n *ntfyService) NotifyPublishFailed(ctx context.Context, albumTitle string, err error) error {
	var builder strings.Builder
	builder.WriteString("Publish failed")
	if albumTitle = strings.TrimSpace(albumTitle); albumTitle != "" {
		builder.WriteString(" for ")
		builder.WriteString(albumTitle)
	}
	builder.WriteString(": ")
	if err != nil {
		builder.WriteString(strings.TrimSpace(err.Error()))
	} else {
		builder.WriteString("unknown")
	}
	return n.send(ctx, payload{
		title:    "folio - Error",
		message:  builder.String(),
		tags:     []string{"folio", "error", "alert"},
		priority: "high",
	})
}

func (n *ntfyService) TestNotification(ctx context.Context) error {
	return n.send(ctx, payload{
		title:    "folio - Test",
		message:  "Notification system test",
		tags:     []string{"folio", "test"},
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

func (noopService) NotifyPublished(context.Context, Published) error         { return nil }
func (noopService) NotifyPublishFailed(context.Context, string, error) error { return nil }
func (noopService) TestNotification(context.Context) error                   { return nil }
