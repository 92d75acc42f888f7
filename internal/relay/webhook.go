// Package relay dispatches validated chat requests to the external coach
// webhook. The webhook is an opaque black box: one POST in, one reply out,
// no retries.
package relay

import (
	"context"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/fitcoach-app/fitcoach/internal/domain"
	"github.com/fitcoach-app/fitcoach/internal/infra/metrics"
)

// Client talks to the coach webhook.
type Client struct {
	url    string
	client *resty.Client
	log    zerolog.Logger
}

// New creates a webhook client. An empty url is allowed at construction —
// Send reports ErrWebhookNotConfigured at call time, so the rest of the app
// (stats, history, goals) keeps working without a webhook.
func New(url string, timeout time.Duration, log zerolog.Logger) *Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	c := resty.New().
		SetHeader("Content-Type", "application/json").
		SetTimeout(timeout)

	return &Client{url: url, client: c, log: log}
}

// Configured reports whether a webhook URL is set.
func (c *Client) Configured() bool {
	return c.url != ""
}

// Send posts one exchange to the webhook and returns the assistant reply.
// Exactly one attempt: a failed or timed-out request surfaces as an error
// and the caller must not grant activity credit for it.
func (c *Client) Send(ctx context.Context, req domain.ChatRequest) (domain.ChatResponse, error) {
	var out domain.ChatResponse

	if c.url == "" {
		return out, domain.ErrWebhookNotConfigured
	}

	start := time.Now()
	resp, err := c.client.R().
		SetContext(ctx).
		SetBody(&req).
		SetResult(&out).
		Post(c.url)
	metrics.WebhookLatency.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.WebhookFailures.WithLabelValues("transport").Inc()
		c.log.Warn().Err(err).Msg("webhook request failed")
		return domain.ChatResponse{}, err
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		metrics.WebhookFailures.WithLabelValues(strconv.Itoa(resp.StatusCode())).Inc()
		c.log.Warn().Int("status", resp.StatusCode()).Msg("webhook returned non-2xx")
		return domain.ChatResponse{}, &domain.RequestFailedError{StatusCode: resp.StatusCode()}
	}

	return out, nil
}
