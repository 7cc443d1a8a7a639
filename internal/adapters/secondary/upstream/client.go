// Package upstream fetches the participants dataset from the ticketing API.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lorrc/ticket-dashboard/internal/core/domain"
	apperrors "github.com/lorrc/ticket-dashboard/internal/core/errors"
	"github.com/lorrc/ticket-dashboard/internal/core/ports"
)

const (
	defaultTimeout = 10 * time.Second

	// maxBodyBytes bounds the participants payload.
	maxBodyBytes = 32 << 20
)

// emptyPage is served for an upstream 404.
var emptyPage = []byte(`{"data":[]}`)

// ErrPayloadTooLarge is returned, wrapped in ErrUpstreamUnavailable, when
// the participants body exceeds the read limit.
var ErrPayloadTooLarge = errors.New("participants payload too large")

// Config holds the endpoint settings.
type Config struct {
	URL     string
	Token   string
	Timeout time.Duration
}

// Client is the HTTP participants source.
type Client struct {
	url        string
	token      string
	httpClient *http.Client
	maxBody    int64
	logger     *slog.Logger
}

var _ ports.ParticipantSource = (*Client)(nil)

// NewClient creates a participants client. A zero timeout uses 10s.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}

	return &Client{
		url:   cfg.URL,
		token: cfg.Token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		maxBody: maxBodyBytes,
		logger: logger.With("component", "upstream_client"),
	}
}

// Configured reports whether both the URL and the token are set.
func (c *Client) Configured() bool {
	return c.url != "" && c.token != ""
}

// FetchParticipants returns the decoded dataset.
func (c *Client) FetchParticipants(ctx context.Context) (*domain.ParticipantPage, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	page, err := domain.DecodeParticipantPage(body)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}

	c.logger.Debug("participants fetched", "records", len(page.Data))
	return page, nil
}

// FetchRaw returns the upstream body unchanged once it is known to be JSON.
func (c *Client) FetchRaw(ctx context.Context) ([]byte, error) {
	body, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	if !json.Valid(body) {
		return nil, fmt.Errorf("%w: response is not valid JSON", apperrors.ErrUpstreamUnavailable)
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context) ([]byte, error) {
	if !c.Configured() {
		return nil, apperrors.ErrUpstreamNotConfigured
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: create request: %w", apperrors.ErrUpstreamUnavailable, err)
	}

	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("participants request failed", "error", err)
		return nil, fmt.Errorf("%w: %w", apperrors.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug("participants response",
		"status_code", resp.StatusCode,
		"duration_ms", time.Since(start).Milliseconds(),
	)

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return emptyPage, nil
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		c.logger.Warn("participants request rejected", "status_code", resp.StatusCode)
		return nil, &apperrors.UpstreamStatusError{StatusCode: resp.StatusCode}
	}

	// One byte past the limit tells a full body from a truncated one
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %w", apperrors.ErrUpstreamUnavailable, err)
	}
	if int64(len(body)) > c.maxBody {
		c.logger.Warn("participants response too large", "limit_bytes", c.maxBody)
		return nil, fmt.Errorf("%w: %w: exceeds %d bytes", apperrors.ErrUpstreamUnavailable, ErrPayloadTooLarge, c.maxBody)
	}
	return body, nil
}
