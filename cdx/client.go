// Package cdx implements the Common Crawl CDX Server API client: request
// parameter construction, response parsing, and outcome classification.
//
// The client performs exactly one HTTP round trip per Query call and carries
// no retry logic of its own; retries are the orchestrator's responsibility.
package cdx

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/pithecene-io/cdxq/types"
)

// errorBodyLimit caps how much of an error response body is carried into the
// error detail.
const errorBodyLimit = 100

// Querier is the single-round-trip query contract consumed by the
// orchestrator. Satisfied by *Client; test doubles implement it directly.
type Querier interface {
	Query(ctx context.Context, cfg *types.QueryConfig, target string) ([]types.CaptureRow, types.Classification, string)
}

// Client issues CDX index queries over HTTP.
type Client struct {
	httpClient *http.Client
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client (for tests and custom
// transports).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a CDX client. Per-request deadlines come from the
// QueryConfig timeout, not from the HTTP client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Query issues one GET against the configured CDX endpoint for target and
// classifies the outcome:
//
//   - 200 with at least one parsed row: ClassSuccess
//   - 200 with an empty body, or 404: ClassNoCaptures
//   - any other status: ClassError, detail carries the status and the first
//     100 bytes of the body
//   - request deadline exceeded: ClassTimeout, detail states the configured
//     timeout
//   - any other transport failure: ClassError
//
// Response lines that cannot be parsed are dropped silently and never
// surface as errors.
func (c *Client) Query(ctx context.Context, cfg *types.QueryConfig, target string) ([]types.CaptureRow, types.Classification, string) {
	ctx, cancel := context.WithTimeout(ctx, cfg.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Endpoint, nil)
	if err != nil {
		return nil, types.ClassError, fmt.Sprintf("invalid endpoint: %v", err)
	}
	req.URL.RawQuery = buildParams(cfg, target).Encode()
	req.Header.Set("User-Agent", cfg.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		class, detail := classifyTransport(err, cfg.Timeout)
		return nil, class, detail
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		class, detail := classifyTransport(err, cfg.Timeout)
		return nil, class, detail
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		rows := parseBody(cfg.Output, string(body))
		if len(rows) == 0 {
			return nil, types.ClassNoCaptures, ""
		}
		return rows, types.ClassSuccess, ""

	case resp.StatusCode == http.StatusNotFound:
		// The index explicitly signals the URL is absent. Not an error.
		return nil, types.ClassNoCaptures, ""

	default:
		return nil, types.ClassError, fmt.Sprintf("HTTP %d: %s", resp.StatusCode, truncate(string(body), errorBodyLimit))
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
