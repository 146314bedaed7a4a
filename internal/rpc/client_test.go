package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rpcServer(t *testing.T, status int, reply string) *Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req Request
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "2.0", req.JSONRPC)
		assert.Equal(t, "eth_blockNumber", req.Method)
		assert.Empty(t, req.Params)

		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 0)
}

func TestBlockNumber(t *testing.T) {
	c := rpcServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"result":"0x1122f10"}`)

	n, latency, err := c.BlockNumber(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 17968912, n)
	assert.Positive(t, latency)
}

func TestBlockNumberErrors(t *testing.T) {
	tests := map[string]struct {
		status int
		reply  string
	}{
		"http error":    {status: http.StatusTooManyRequests, reply: `rate limited`},
		"bad json":      {status: http.StatusOK, reply: `not json`},
		"bad hex":       {status: http.StatusOK, reply: `{"jsonrpc":"2.0","id":1,"result":"0xzz"}`},
		"numeric":       {status: http.StatusOK, reply: `{"jsonrpc":"2.0","id":1,"result":12}`},
		"leading zeros": {status: http.StatusOK, reply: `{"jsonrpc":"2.0","id":1,"result":"0x01"}`},
	}

	for name, tc := range tests {
		t.Run(name, func(t *testing.T) {
			c := rpcServer(t, tc.status, tc.reply)
			_, _, err := c.BlockNumber(context.Background())
			require.Error(t, err)
		})
	}
}

func TestRPCErrorObject(t *testing.T) {
	c := rpcServer(t, http.StatusOK, `{"jsonrpc":"2.0","id":1,"error":{"code":-32005,"message":"limit exceeded"}}`)

	_, _, err := c.BlockNumber(context.Background())
	var rpcErr *RPCError
	require.True(t, errors.As(err, &rpcErr))
	assert.Equal(t, -32005, rpcErr.Code)
	assert.Contains(t, err.Error(), "limit exceeded")
}
