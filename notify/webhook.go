package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"
)

// Webhook delivery defaults.
const (
	DefaultWebhookTimeout    = 10 * time.Second
	DefaultWebhookMaxRetries = 3
	DefaultWebhookRetryWait  = 500 * time.Millisecond
)

// ErrDeliveryFailed indicates the endpoint rejected a webhook.
var ErrDeliveryFailed = errors.New("webhook delivery failed")

// DeliveryError reports a non-2xx webhook response.
type DeliveryError struct {
	URL        string
	StatusCode int
	Body       string // First bytes of the response body
}

func (e *DeliveryError) Error() string {
	if e.Body != "" {
		return fmt.Sprintf("webhook %s returned %d: %s", e.URL, e.StatusCode, e.Body)
	}
	return fmt.Sprintf("webhook %s returned %d", e.URL, e.StatusCode)
}

func (e *DeliveryError) Unwrap() error {
	return ErrDeliveryFailed
}

// Retryable reports whether the status is transient (429 or 5xx).
func (e *DeliveryError) Retryable() bool {
	return e.StatusCode == http.StatusTooManyRequests || e.StatusCode >= 500
}

// WebhookNotifier posts events as JSON to an HTTP endpoint.
// Network errors, 429 and 5xx responses are retried with exponential backoff.
type WebhookNotifier struct {
	URL     string
	Headers map[string]string
	Client  *http.Client

	// MaxRetries is the number of attempts after the first. Zero or less
	// sends once.
	MaxRetries int
	RetryWait  time.Duration
}

// NewWebhookNotifier creates a webhook notifier with default timeout and retries.
func NewWebhookNotifier(url string, headers map[string]string) *WebhookNotifier {
	return &WebhookNotifier{
		URL:        url,
		Headers:    headers,
		Client:     &http.Client{Timeout: DefaultWebhookTimeout},
		MaxRetries: DefaultWebhookMaxRetries,
		RetryWait:  DefaultWebhookRetryWait,
	}
}

// Notify implements Notifier.
func (n *WebhookNotifier) Notify(ctx context.Context, event Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	attempts := max(n.MaxRetries, 0) + 1
	var lastErr error
	for attempt := range attempts {
		wait, err := n.send(ctx, body, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		var delivery *DeliveryError
		if errors.As(err, &delivery) && !delivery.Retryable() {
			return err
		}
		if attempt == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(wait):
		}
	}
	return lastErr
}

// send makes one delivery attempt and returns how long to wait before the next.
func (n *WebhookNotifier) send(ctx context.Context, body []byte, attempt int) (time.Duration, error) {
	backoff := n.RetryWait * time.Duration(1<<attempt)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, n.URL, bytes.NewReader(body))
	if err != nil {
		return 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range n.Headers {
		req.Header.Set(k, v)
	}

	client := n.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return backoff, fmt.Errorf("send webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 300 {
		return 0, nil
	}

	snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
		if seconds, err := strconv.Atoi(retryAfter); err == nil {
			backoff = time.Duration(seconds) * time.Second
		}
	}
	return backoff, &DeliveryError{URL: n.URL, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(snippet))}
}
