package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/jakbu/jakbu/pkg/slogx"
)

// PushMessage is a single device notification.
type PushMessage struct {
	To    string `json:"to"`
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Pusher delivers a notification to a device.
type Pusher interface {
	Push(ctx context.Context, msg PushMessage) error
}

// LogPusher writes notifications to the log instead of a device. Used when
// no push endpoint is configured.
type LogPusher struct {
	Logger *slog.Logger
}

func (p LogPusher) Push(ctx context.Context, msg PushMessage) error {
	l := p.Logger
	if l == nil {
		l = slogx.FromContext(ctx)
	}
	l.Info("push notification", "title", msg.Title, "body", msg.Body)
	return nil
}

// WebhookPusher POSTs the message as JSON to an HTTP endpoint such as a
// push gateway.
type WebhookPusher struct {
	URL        string
	AuthHeader string // optional Authorization value
	HTTPClient *http.Client
}

func NewWebhookPusher(url, authHeader string, timeout time.Duration) *WebhookPusher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookPusher{
		URL:        url,
		AuthHeader: authHeader,
		HTTPClient: &http.Client{Timeout: timeout},
	}
}

func (p *WebhookPusher) Push(ctx context.Context, msg PushMessage) error {
	body, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode push message: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if p.AuthHeader != "" {
		req.Header.Set("Authorization", p.AuthHeader)
	}

	resp, err := p.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("push endpoint returned status %d", resp.StatusCode)
	}
	return nil
}
