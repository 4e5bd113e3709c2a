// Package client talks to a running judge proxy over HTTP.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/abhisek/quantsim/internal/bank"
	"github.com/abhisek/quantsim/internal/feedback"
	"github.com/abhisek/quantsim/internal/llm"
)

// DefaultTimeout bounds a single judge round trip.
const DefaultTimeout = 2 * time.Minute

// Client is an HTTP client for the judge proxy. It implements feedback.Judge.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithLogger sets the logger used for transport failures.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// New creates a client for the proxy at baseURL, e.g. "http://localhost:8080".
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Judge posts req to the proxy. The response body is decoded exactly once;
// any status code is accepted as long as the body is a judge response.
func (c *Client) Judge(ctx context.Context, req feedback.Request) feedback.Result {
	body, err := json.Marshal(req)
	if err != nil {
		return c.transportFailure(ctx, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/judge", bytes.NewReader(body))
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if id := llm.SessionIDFrom(ctx); id != "" {
		httpReq.Header.Set(feedback.SessionHeader, id)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return c.transportFailure(ctx, err)
	}
	defer resp.Body.Close()

	var out feedback.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return c.transportFailure(ctx, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err))
	}
	return feedback.FromResponse(out)
}

func (c *Client) transportFailure(ctx context.Context, err error) feedback.Result {
	c.logger.WarnContext(ctx, "judge request failed", "url", c.baseURL, "error", err)
	return feedback.Failure{Kind: feedback.FailureTransport, Message: err.Error()}
}

// Questions fetches the proxy's question bank without display-math rewriting.
func (c *Client) Questions(ctx context.Context) ([]bank.Question, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/api/questions?raw=1", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("fetch questions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch questions: unexpected status %d", resp.StatusCode)
	}

	var qs []bank.Question
	if err := json.NewDecoder(resp.Body).Decode(&qs); err != nil {
		return nil, fmt.Errorf("decode questions: %w", err)
	}
	return qs, nil
}
