// Package relay is a client for the Unipile messaging relay, which fronts
// LinkedIn chats, profiles and invitations. Relay payloads vary between
// provider versions, so responses are traversed tolerantly with gjson
// instead of being bound to rigid structs.
package relay

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"outreach_backend/platform/config"
	"outreach_backend/platform/logger"

	"github.com/tidwall/gjson"
	"golang.org/x/time/rate"
)

// Client calls the relay REST API. All requests pass through a shared rate
// limiter so batch sweeps do not trip the provider's quota.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	limiter    *rate.Limiter
	log        *logger.Logger
}

// NewClient creates a relay client from configuration.
func NewClient(cfg config.RelayConfig, log *logger.Logger) *Client {
	rps := cfg.GetRelayRequestsPerSecond()
	if rps <= 0 {
		rps = 5
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.GetRelayBaseURL(), "/"),
		apiKey:     cfg.GetRelayAPIKey(),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		limiter:    rate.NewLimiter(rate.Limit(rps), int(rps)+1),
		log:        log,
	}
}

// Enabled reports whether the relay is configured.
func (c *Client) Enabled() bool {
	return c.baseURL != "" && c.apiKey != ""
}

func (c *Client) do(ctx context.Context, method, path, contentType string, body io.Reader) (gjson.Result, int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return gjson.Result{}, 0, err
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return gjson.Result{}, 0, fmt.Errorf("relay request: %w", err)
	}
	req.Header.Set("X-API-KEY", c.apiKey)
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return gjson.Result{}, 0, fmt.Errorf("relay %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return gjson.Result{}, resp.StatusCode, fmt.Errorf("relay %s %s: status %d: %s", method, path, resp.StatusCode, strings.TrimSpace(string(raw)))
	}
	return gjson.ParseBytes(raw), resp.StatusCode, nil
}

// items unwraps a list response. The relay nests arrays under different keys
// depending on the endpoint and version, or returns a bare array.
func items(body gjson.Result) []gjson.Result {
	for _, key := range []string{"data", "items", "chats", "messages", "accounts"} {
		if nested := body.Get(key); nested.IsArray() {
			return nested.Array()
		}
	}
	if body.IsArray() {
		return body.Array()
	}
	return nil
}
