package api

import (
	"context"
	"net/url"
)

func seg(s string) string { return url.PathEscape(s) }

// GetBalance fetches the native balance of address at the end of date (YYYY-MM-DD).
func (c *Client) GetBalance(ctx context.Context, address, date string, q BalanceQuery) (*Response, error) {
	return c.Get(ctx, "getBalance", "/api/eth/getBalance/"+seg(address)+"/"+seg(date), q.params())
}

// GetErc20Balance fetches owner's balance of token at the end of date.
func (c *Client) GetErc20Balance(ctx context.Context, token, owner, date string, q BalanceQuery) (*Response, error) {
	return c.Get(ctx, "getErc20Balance", "/api/eth/getErc20Balance/"+seg(token)+"/"+seg(owner)+"/"+seg(date), q.params())
}

// GetBlockByNumber fetches one block; number is a decimal height or "latest".
func (c *Client) GetBlockByNumber(ctx context.Context, number string, full bool) (*Response, error) {
	return c.Get(ctx, "getBlockByNumber", "/api/eth/getBlockByNumber/"+seg(number), Params{}.AddBool("full", full))
}

// GetBlockRange fetches the blocks in [from, to).
func (c *Client) GetBlockRange(ctx context.Context, from, to uint64, full bool) (*Response, error) {
	params := Params{}.AddUint("from", from).AddUint("to", to).AddBool("full", full)
	return c.Get(ctx, "getBlockRange", "/api/eth/getBlockByNumber/range", params)
}

func (c *Client) GetTransactionByHash(ctx context.Context, hash string) (*Response, error) {
	return c.Get(ctx, "getTransactionByHash", "/api/eth/getTransactionByHash/"+seg(hash), nil)
}

func (c *Client) GetTransactionReceipt(ctx context.Context, hash string) (*Response, error) {
	return c.Get(ctx, "getTransactionReceipt", "/api/eth/getTransactionReceipt/"+seg(hash), nil)
}

// GetLogs runs a generic log query over [From, To).
func (c *Client) GetLogs(ctx context.Context, q LogsQuery) (*Response, error) {
	return c.Get(ctx, "getLogs", "/api/eth/getLogs", q.params())
}

// GetErc20WalletTransfers lists transfers into or out of address.
func (c *Client) GetErc20WalletTransfers(ctx context.Context, address string, q TransferQuery) (*Response, error) {
	return c.Get(ctx, "getErc20WalletTransfers", "/api/eth/getLogs/erc20/wallet/"+seg(address), q.params())
}

// GetErc20TokenTransfers lists every transfer emitted by the token contract at address.
func (c *Client) GetErc20TokenTransfers(ctx context.Context, address string, q TransferQuery) (*Response, error) {
	q.Tokens = nil
	return c.Get(ctx, "getErc20TokenTransfers", "/api/eth/getLogs/erc20/token/"+seg(address), q.params())
}

// GetTraceFilter lists traces touching address, or all traces when address is empty.
func (c *Client) GetTraceFilter(ctx context.Context, address string, q TraceQuery) (*Response, error) {
	path := "/api/trace/filter"
	if address != "" {
		path += "/" + seg(address)
	}
	return c.Get(ctx, "traceFilter", path, q.params())
}

// Ping checks liveness. Any 2xx status counts as up; the body is not parsed.
func (c *Client) Ping(ctx context.Context, route string) (*Response, error) {
	return c.do(ctx, "ping", route, nil, false)
}

// RPCInfo fetches the upstream RPC pool the indexer is configured with.
func (c *Client) RPCInfo(ctx context.Context) (*RPCInfoResponse, *Response, error) {
	resp, err := c.Get(ctx, "rpcInfo", "/api/rpc-info", nil)
	if err != nil {
		return nil, nil, err
	}
	var info RPCInfoResponse
	if err := resp.Decode(&info); err != nil {
		return nil, resp, err
	}
	return &info, resp, nil
}
