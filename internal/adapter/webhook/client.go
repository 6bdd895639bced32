package webhook

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/polkiloo/ordernotify/internal/domain/model"
)

// Client posts alert payloads to the configured webhook endpoint.
type Client interface {
	Notify(ctx context.Context, message string, severity model.Severity) bool
	Enabled() bool
}

// HTTPClient implements Client against a Slack-compatible webhook URL.
// Disabled clients report every delivery as failed so callers escalate to
// the critical sink.
type HTTPClient struct {
	url        string
	enabled    bool
	maxRetries int
	httpClient *http.Client
	sleep      func(time.Duration)
	now        func() time.Time
	logger     *slog.Logger
}

// Option customizes an HTTPClient.
type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) { c.httpClient = hc }
}

// WithSleep replaces the inter-attempt wait.
func WithSleep(sleep func(time.Duration)) Option {
	return func(c *HTTPClient) { c.sleep = sleep }
}

// WithClock replaces the timestamp source.
func WithClock(now func() time.Time) Option {
	return func(c *HTTPClient) { c.now = now }
}

// NewHTTPClient creates the webhook client.
func NewHTTPClient(url string, enabled bool, timeout time.Duration, maxRetries int, logger *slog.Logger, opts ...Option) *HTTPClient {
	if maxRetries <= 0 {
		maxRetries = 1
	}
	c := &HTTPClient{
		url:        url,
		enabled:    enabled && url != "",
		maxRetries: maxRetries,
		httpClient: &http.Client{Timeout: timeout},
		sleep:      time.Sleep,
		now:        time.Now,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Enabled reports whether the webhook channel is configured for delivery.
func (c *HTTPClient) Enabled() bool {
	return c.enabled
}

// payload is the Slack/Discord-compatible attachment format.
type payload struct {
	Text        string       `json:"text"`
	Attachments []attachment `json:"attachments"`
}

type attachment struct {
	Color  string  `json:"color"`
	Fields []field `json:"fields"`
}

type field struct {
	Title string `json:"title"`
	Value string `json:"value"`
	Short bool   `json:"short"`
}

// Notify posts the alert, retrying with exponential backoff. A 200 status is
// the only success signal.
func (c *HTTPClient) Notify(ctx context.Context, message string, severity model.Severity) bool {
	if !c.enabled {
		return false
	}

	body, err := json.Marshal(c.buildPayload(message, severity))
	if err != nil {
		c.logger.Error("marshal webhook payload", slog.String("error", err.Error()))
		return false
	}

	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if c.post(ctx, body) {
			c.logger.Info("webhook sent", slog.String("severity", string(severity)))
			return true
		}
		if attempt < c.maxRetries-1 {
			c.sleep(time.Duration(1<<uint(attempt)) * time.Second)
		}
	}

	c.logger.Error("all webhook attempts failed", slog.String("message", message))
	return false
}

func (c *HTTPClient) post(ctx context.Context, body []byte) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		c.logger.Error("build webhook request", slog.String("error", err.Error()))
		return false
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error("webhook request failed", slog.String("error", err.Error()))
		return false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		c.logger.Warn("webhook rejected",
			slog.Int("status", resp.StatusCode),
			slog.String("body", string(respBody)))
		return false
	}
	return true
}

func (c *HTTPClient) buildPayload(message string, severity model.Severity) payload {
	return payload{
		Text: "🤖 Order Notify Alert",
		Attachments: []attachment{{
			Color: colorFor(severity),
			Fields: []field{
				{Title: "Alert Type", Value: strings.ToUpper(string(severity)), Short: true},
				{Title: "Message", Value: message, Short: false},
				{Title: "Timestamp", Value: c.now().UTC().Format("2006-01-02 15:04:05 UTC"), Short: true},
			},
		}},
	}
}

func colorFor(severity model.Severity) string {
	switch severity {
	case model.SeverityWarning:
		return "#ff9500"
	case model.SeverityError:
		return "#ff0000"
	case model.SeverityCritical:
		return "#8b0000"
	default:
		return "#36a64f"
	}
}
