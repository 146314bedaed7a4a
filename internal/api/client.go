// Package api is the HTTP client for the indexer REST API.
//
// The client is deliberately thin: it builds the request URL from a path and
// an ordered parameter list, performs a single GET, and hands back the raw
// body together with everything needed to reproduce the request. It never
// retries; a failed call is reported once and left to the user.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	"github.com/dmagro/eth-indexer-explorer/internal/metrics"
)

type Client struct {
	origin     string
	httpClient *http.Client
	log        *logger.Logger
	metrics    *metrics.Metrics
}

// NewClient creates a client for the indexer at baseURL. A zero timeout leaves
// requests unbounded apart from context cancellation. m may be nil.
func NewClient(baseURL string, timeout time.Duration, log *logger.Logger, m *metrics.Metrics) (*Client, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q (missing scheme or host)", baseURL)
	}
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Client{
		origin:     u.Scheme + "://" + u.Host,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.WithComponent("api"),
		metrics:    m,
	}, nil
}

// BaseURL returns the scheme and host every request is sent to.
func (c *Client) BaseURL() string { return c.origin }

// BuildURL joins the origin, path and encoded params.
func (c *Client) BuildURL(path string, params Params) string {
	u := c.origin + path
	if q := params.Encode(); q != "" {
		u += "?" + q
	}
	return u
}

// Get performs one GET request and requires a JSON body on success.
func (c *Client) Get(ctx context.Context, operation, path string, params Params) (*Response, error) {
	return c.do(ctx, operation, path, params, true)
}

func (c *Client) do(ctx context.Context, operation, path string, params Params, requireJSON bool) (*Response, error) {
	full := c.BuildURL(path, params)
	resp := &Response{
		Operation: operation,
		URL:       full,
		Endpoint:  c.origin + path,
		Params:    params,
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, full, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", full, err)
	}
	req.Header.Set("Accept", "application/json")

	c.log.Debugw("sending request", "operation", operation, "url", full)

	start := time.Now()
	httpResp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRequest(operation, metrics.OutcomeTransportError, time.Since(start))
		c.log.Debugw("request failed", "operation", operation, "error", err)
		return nil, fmt.Errorf("request %s: %w", full, err)
	}
	defer httpResp.Body.Close()

	body, readErr := io.ReadAll(httpResp.Body)
	resp.Latency = time.Since(start)
	resp.Status = httpResp.StatusCode

	if httpResp.StatusCode < 200 || httpResp.StatusCode > 299 {
		c.metrics.ObserveRequest(operation, metrics.OutcomeHTTPError, resp.Latency)
		apiErr := newHTTPError(httpResp.StatusCode, statusText(httpResp), body)
		c.log.Debugw("request returned error status", "operation", operation, "status", httpResp.StatusCode, "latency", resp.Latency)
		return nil, apiErr
	}
	if readErr != nil {
		c.metrics.ObserveRequest(operation, metrics.OutcomeTransportError, resp.Latency)
		return nil, fmt.Errorf("request %s: read body: %w", full, readErr)
	}
	if requireJSON && !json.Valid(body) {
		c.metrics.ObserveRequest(operation, metrics.OutcomeParseError, resp.Latency)
		return nil, newParseError(body)
	}

	c.metrics.ObserveRequest(operation, metrics.OutcomeOK, resp.Latency)
	c.log.Debugw("request completed", "operation", operation, "status", resp.Status, "bytes", len(body), "latency", resp.Latency)

	resp.Body = body
	return resp, nil
}

// statusText returns the reason phrase the server sent, falling back to the
// standard text for the code.
func statusText(r *http.Response) string {
	text := strings.TrimSpace(strings.TrimPrefix(r.Status, strconv.Itoa(r.StatusCode)))
	if text == "" {
		text = http.StatusText(r.StatusCode)
	}
	return text
}
