// Package rpc is a minimal Ethereum JSON-RPC client. The explorer only needs
// the chain head, read once per dashboard refresh.
package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/ethereum/go-ethereum/common/hexutil"
)

type Client struct {
	url        string
	httpClient *http.Client
}

// NewClient creates a client for the endpoint at url. A zero timeout leaves
// requests bounded only by the caller's context.
func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:        url,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) URL() string { return c.url }

// Call sends a single JSON-RPC request and returns the decoded envelope and
// round-trip latency. A JSON-RPC error object is returned as *RPCError.
func (c *Client) Call(ctx context.Context, method string, params ...any) (*Response, time.Duration, error) {
	if params == nil {
		params = []any{}
	}

	body, err := json.Marshal(Request{
		JSONRPC: "2.0",
		Method:  method,
		Params:  params,
		ID:      1,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("marshal %s request: %w", method, err)
	}

	start := time.Now()
	resp, err := c.doRequest(ctx, body)
	latency := time.Since(start)
	if err != nil {
		return nil, latency, fmt.Errorf("%s: %w", method, err)
	}
	return resp, latency, nil
}

func (c *Client) doRequest(ctx context.Context, body []byte) (*Response, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	if httpResp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", httpResp.StatusCode)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, err
	}

	var resp Response
	if err := json.Unmarshal(respBody, &resp); err != nil {
		return nil, fmt.Errorf("invalid JSON response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	return &resp, nil
}

// BlockNumber returns the latest block height via eth_blockNumber.
func (c *Client) BlockNumber(ctx context.Context) (uint64, time.Duration, error) {
	resp, latency, err := c.Call(ctx, "eth_blockNumber")
	if err != nil {
		return 0, latency, err
	}

	var hexStr string
	if err := json.Unmarshal(resp.Result, &hexStr); err != nil {
		return 0, latency, fmt.Errorf("eth_blockNumber: unexpected result %s: %w", resp.Result, err)
	}

	num, err := hexutil.DecodeUint64(hexStr)
	if err != nil {
		return 0, latency, fmt.Errorf("eth_blockNumber: %w", err)
	}
	return num, latency, nil
}
