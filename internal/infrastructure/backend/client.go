// Package backend is the HTTP client for the MinuteHire backend API: user
// auth, OTP, profile and recruiter dashboard endpoints.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/minutehire/auth-gateway/internal/api/metrics"
	"github.com/minutehire/auth-gateway/internal/core/domain"
)

const (
	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 1 << 20
)

// Config captures the settings for reaching the backend.
type Config struct {
	BaseURL string
	Timeout time.Duration
	// HTTPClient overrides the default client; Timeout is ignored when set.
	HTTPClient *http.Client
}

// Client talks JSON to the backend. Calls are made once; there is no retry.
type Client struct {
	baseURL string
	http    *http.Client
	log     zerolog.Logger
}

func NewClient(cfg Config, log zerolog.Logger) *Client {
	hc := cfg.HTTPClient
	if hc == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		hc = &http.Client{Timeout: timeout}
	}
	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		http:    hc,
		log:     log,
	}
}

// envelope is the union of the shapes the backend answers with.
type envelope struct {
	Success                   *bool          `json:"success"`
	Message                   string         `json:"message"`
	Error                     string         `json:"error"`
	RequiresEmailVerification bool           `json:"requiresEmailVerification"`
	Email                     string         `json:"email"`
	Token                     string         `json:"token"`
	User                      map[string]any `json:"user"`
	Profile                   map[string]any `json:"profile"`
	Dashboard                 map[string]any `json:"dashboard"`
	ID                        any            `json:"id"`
}

// do sends body as JSON and decodes the answer into an envelope. raw receives
// the undecoded map when non-nil.
func (c *Client) do(ctx context.Context, endpoint, method, path, token string, body any, raw *map[string]any) (*envelope, error) {
	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", endpoint, err)
		}
		reader = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", endpoint, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.BackendRequestDuration.WithLabelValues(endpoint, "error").Observe(time.Since(start).Seconds())
		c.log.Warn().Err(err).Str("endpoint", endpoint).Msg("backend request failed")
		return nil, fmt.Errorf("%s: %w: %w", endpoint, domain.ErrBackendUnavailable, err)
	}
	defer resp.Body.Close()
	metrics.BackendRequestDuration.WithLabelValues(endpoint, fmt.Sprintf("%d", resp.StatusCode)).Observe(time.Since(start).Seconds())

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%s: read body: %w", endpoint, domain.ErrBackendUnavailable)
	}

	var env envelope
	if len(bytes.TrimSpace(data)) > 0 {
		if err := json.Unmarshal(data, &env); err != nil && resp.StatusCode < 300 {
			return nil, fmt.Errorf("%s: decode body: %w", endpoint, err)
		}
		if raw != nil {
			_ = json.Unmarshal(data, raw)
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := env.Message
		if msg == "" {
			msg = env.Error
		}
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return nil, &APIError{
			Status:                    resp.StatusCode,
			Message:                   msg,
			RequiresEmailVerification: env.RequiresEmailVerification,
			Email:                     env.Email,
		}
	}
	return &env, nil
}
