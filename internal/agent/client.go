// Package agent implements the reasoning client against an HTTP reasoning
// service. One request per role call, no retries: callers substitute
// neutral defaults instead of hammering a struggling backend.
package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"log/slog"

	"github.com/voltwiz/voltwiz/internal/logging"
	"github.com/voltwiz/voltwiz/pkg/domain"
	"github.com/voltwiz/voltwiz/pkg/ports"
)

// maxReplyBytes caps how much of a reply is read. Role replies are small
// JSON documents; anything bigger is a misbehaving backend.
const maxReplyBytes = 1 << 20

// Client calls a reasoning service over HTTP.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
	logger  *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option {
	return func(c *Client) { c.http = h }
}

// WithLogger configures a logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) { c.logger = logger }
}

// New creates a Client for the service at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: 60 * time.Second},
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Invoke implements ports.ReasoningClient. The reply body must be a JSON
// document; anything else is reported as malformed so the orchestrator can
// degrade the role.
func (c *Client) Invoke(ctx context.Context, req ports.AgentRequest) (json.RawMessage, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode role request: %w", err)
	}

	url := fmt.Sprintf("%s/v1/roles/%s", c.baseURL, req.Role)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build role request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	start := time.Now()
	resp, err := c.http.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("role call failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxReplyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read role reply: %w", err)
	}

	c.logger.Debug("Role call completed",
		"role", string(req.Role),
		"status", resp.StatusCode,
		"duration", time.Since(start),
	)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("role call returned status %d", resp.StatusCode)
	}
	if !json.Valid(raw) {
		return nil, fmt.Errorf("%w: reply is not JSON", domain.ErrMalformedAgentReply)
	}
	return raw, nil
}
