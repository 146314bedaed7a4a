package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/eth-indexer-explorer/internal/history"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

// fakeIndexer records the request URIs it receives.
type fakeIndexer struct {
	mu       sync.Mutex
	requests []string
	srv      *httptest.Server
}

func (f *fakeIndexer) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newFakeIndexer(t *testing.T, routes map[string]http.HandlerFunc) *fakeIndexer {
	t.Helper()
	f := &fakeIndexer{}
	mux := http.NewServeMux()
	for pattern, h := range routes {
		mux.HandleFunc(pattern, h)
	}
	f.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.RequestURI())
		f.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(f.srv.Close)
	return f
}

func jsonBody(body string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(body))
	}
}

// setupEnv points the explorer at srv with storage in a fresh directory,
// which also becomes the working directory.
func setupEnv(t *testing.T, baseURL string) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("API_BASE_URL", baseURL)
	t.Setenv("STORAGE_DRIVER", "file")
	t.Setenv("STORAGE_PATH", filepath.Join(dir, "storage.json"))
	t.Setenv("LOG_LEVEL", "error")
	return dir
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(&out, &errOut)
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(&out)
	root.SetErr(&errOut)
	err := root.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

const balanceBody = `{"address":"0xd8da6bf26964af9d7eed9e03e53415d37aa96045","date":"2024-01-15","timestamp":1705363199,"block_number":19018000,"balance":"1500000000000000000"}`

func TestBalanceRecordsLedgerAndReruns(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/eth/getBalance/": jsonBody(balanceBody),
	})
	setupEnv(t, idx.srv.URL)

	out, _, err := execute(t, "balance", vitalik, "2024-01-15")
	require.NoError(t, err)
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, vitalik)
	require.Len(t, idx.seen(), 1)
	assert.Equal(t, "/api/eth/getBalance/"+vitalik+"/2024-01-15?onMiss=strict", idx.seen()[0])

	out, _, err = execute(t, "recent", "--format", "json")
	require.NoError(t, err)
	var entries []history.RecentQuery
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 1)
	assert.Equal(t, "Balance", entries[0].Type)
	assert.Equal(t, history.StatusSuccess, entries[0].Status)
	assert.NotEmpty(t, entries[0].Href)

	_, errOut, err := execute(t, "rerun", "1")
	require.NoError(t, err)
	assert.Contains(t, errOut, "explorer balance")
	seen := idx.seen()
	require.Len(t, seen, 2)
	assert.Equal(t, seen[0], seen[1])

	out, _, err = execute(t, "recent", "--format", "json")
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	assert.Len(t, entries, 2)
}

func TestBalanceValidationFailsWithoutRequest(t *testing.T) {
	idx := newFakeIndexer(t, nil)
	setupEnv(t, idx.srv.URL)

	_, errOut, err := execute(t, "balance", "0x123", "2024-13-45")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Invalid input:")
	assert.Contains(t, errOut, "address")
	assert.Contains(t, errOut, "date")
	assert.Empty(t, idx.seen())
}

func TestStrictMissOffersRelaxedModes(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/eth/getBalance/": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, `{"error":"no block for date"}`, http.StatusNotFound)
		},
	})
	setupEnv(t, idx.srv.URL)

	_, errOut, err := execute(t, "balance", vitalik, "2024-01-15")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Switch to Clamp Mode:")
	assert.Contains(t, errOut, "--on-miss clamp")
	assert.Contains(t, errOut, "--on-miss auto_widen")

	out, _, err := execute(t, "recent", "--format", "json")
	require.NoError(t, err)
	assert.Equal(t, "[]\n", out)
}

func TestServerErrorIsReported(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/eth/getBlockByNumber/": func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "boom", http.StatusInternalServerError)
		},
	})
	setupEnv(t, idx.srv.URL)

	_, errOut, err := execute(t, "block", "latest")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Error 500:")
}

func TestJSONFormatPrintsBody(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/eth/getBalance/": jsonBody(balanceBody),
	})
	setupEnv(t, idx.srv.URL)

	out, _, err := execute(t, "balance", vitalik, "2024-01-15", "--format", "json")
	require.NoError(t, err)
	assert.JSONEq(t, balanceBody, out)
}

func TestJSONReportIsWritten(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/eth/getBalance/": jsonBody(balanceBody),
	})
	dir := setupEnv(t, idx.srv.URL)

	_, errOut, err := execute(t, "balance", vitalik, "2024-01-15", "--json")
	require.NoError(t, err)
	assert.Contains(t, errOut, "JSON report written to:")

	files, err := filepath.Glob(filepath.Join(dir, reportsDir, "balance-*.json"))
	require.NoError(t, err)
	require.Len(t, files, 1)
	data, err := os.ReadFile(files[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"type": "Balance"`)
}

func TestTraceUsesStoredChunkSize(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/trace/filter/": jsonBody(`[]`),
	})
	setupEnv(t, idx.srv.URL)

	_, _, err := execute(t, "settings", "chunk-size", "set", "0")
	require.EqualError(t, err, history.ErrInvalidChunkSize.Error())

	out, _, err := execute(t, "settings", "chunk-size", "set", "100")
	require.NoError(t, err)
	assert.Contains(t, out, "100 blocks")

	out, _, err = execute(t, "settings", "chunk-size")
	require.NoError(t, err)
	assert.Contains(t, out, "100 blocks (stored setting)")

	_, _, err = execute(t, "trace", vitalik, "--start", "1000", "--page", "2")
	require.NoError(t, err)
	require.Len(t, idx.seen(), 1)
	assert.Equal(t, "/api/trace/filter/"+vitalik+"?startblock=1200&endblock=1300", idx.seen()[0])

	_, _, err = execute(t, "settings", "chunk-size", "reset")
	require.NoError(t, err)
	out, _, err = execute(t, "settings", "chunk-size")
	require.NoError(t, err)
	assert.Contains(t, out, "(config default)")
}

func TestRerunUnknownEntry(t *testing.T) {
	idx := newFakeIndexer(t, nil)
	setupEnv(t, idx.srv.URL)

	_, _, err := execute(t, "rerun", "3")
	require.Error(t, err)
	assert.Empty(t, idx.seen())
}

func TestStatusReportsHealthyIndexer(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/ping":         jsonBody(`{"message":"pong"}`),
		"/api/rpc-info": jsonBody(`{"rpc_urls":["https://a.example"],"parallel_per_rpc":2}`),
	})
	head := httptest.NewServer(jsonBody(`{"jsonrpc":"2.0","id":1,"result":"0x10"}`))
	t.Cleanup(head.Close)
	setupEnv(t, idx.srv.URL)
	t.Setenv("ETH_RPC_URL", head.URL)

	out, _, err := execute(t, "status", "--format", "json")
	require.NoError(t, err)

	var r statusReport
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.Equal(t, "UP", r.Overall)
	assert.Equal(t, uint64(16), r.LatestBlock)
	assert.Equal(t, []string{"https://a.example"}, r.RPCURLs)
	assert.Len(t, r.Probes, 3)
}

func TestStatusFailsWhenEverythingIsDown(t *testing.T) {
	idx := newFakeIndexer(t, nil)
	idx.srv.Close()
	setupEnv(t, idx.srv.URL)
	t.Setenv("ETH_RPC_URL", idx.srv.URL)

	_, _, err := execute(t, "status")
	require.ErrorIs(t, err, errReported)
}

func TestPageOverflowIsRejectedBeforeRequest(t *testing.T) {
	idx := newFakeIndexer(t, map[string]http.HandlerFunc{
		"/api/trace/filter/":             jsonBody(`[]`),
		"/api/eth/getLogs/erc20/wallet/": jsonBody(`{"logs":[],"metadata":{}}`),
	})
	setupEnv(t, idx.srv.URL)

	_, errOut, err := execute(t, "trace", vitalik, "--start", "18000000", "--page", "18446744073709551615")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Page is beyond the last addressable block")

	_, errOut, err = execute(t, "erc20", "wallet", vitalik, "--from", "18000000", "--page", "614891469123651720")
	require.ErrorIs(t, err, errReported)
	assert.Contains(t, errOut, "Page is beyond the last addressable block")

	assert.Empty(t, idx.seen())
}
