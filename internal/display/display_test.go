package display

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/dashboard"
	"github.com/dmagro/eth-indexer-explorer/internal/history"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
	"github.com/dmagro/eth-indexer-explorer/internal/stats"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

const vitalik = "0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045"

var now = time.Date(2024, 9, 26, 0, 0, 0, 0, time.UTC)

func TestMain(m *testing.M) {
	color.NoColor = true
	os.Exit(m.Run())
}

func render(t *testing.T, f Formatter) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, f.Format(&buf))
	return buf.String()
}

func TestParseOutputFormat(t *testing.T) {
	for in, want := range map[string]OutputFormat{"": FormatTerminal, "terminal": FormatTerminal, "JSON": FormatJSON} {
		got, err := ParseOutputFormat(in)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}
	_, err := ParseOutputFormat("yaml")
	assert.Error(t, err)
}

func TestRawJSON(t *testing.T) {
	out := render(t, &RawJSON{Body: []byte(`{"a":1,"b":{"c":[1,2]}}`)})
	assert.Equal(t, "{\n  \"a\": 1,\n  \"b\": {\n    \"c\": [\n      1,\n      2\n    ]\n  }\n}\n", out)

	err := (&RawJSON{Body: []byte(`{`)}).Format(&bytes.Buffer{})
	assert.Error(t, err)
}

func TestRawJSONColorsKeys(t *testing.T) {
	color.NoColor = false
	defer func() { color.NoColor = true }()

	out := render(t, &RawJSON{Body: []byte(`{"key":"va\"lue: x"}`)})
	assert.Contains(t, out, "\x1b[36m\"key\"\x1b[0m:")
	assert.Equal(t, "{\n  \"key\": \"va\\\"lue: x\"\n}\n", StripANSI(out))
}

func TestBalanceCard(t *testing.T) {
	var b api.BalanceResponse
	require.NoError(t, json.Unmarshal([]byte(`{
		"address": "0xd8da6bf26964af9d7eed9e03e53415d37aa96045",
		"date": "2024-09-25",
		"block_number": 20825000,
		"balance": "1000000000000000000"
	}`), &b))

	out := render(t, &BalanceCard{Balance: b, Mode: api.OnMissStrict, Now: now})
	assert.Contains(t, out, vitalik)
	assert.Contains(t, out, "20,825,000")
	assert.Contains(t, out, "1000000000000000000")
	assert.Contains(t, out, "1.0000")
	assert.Contains(t, out, "strict")
}

func TestBlockCardFull(t *testing.T) {
	var blk api.Block
	require.NoError(t, json.Unmarshal([]byte(`{
		"header": {"number": "0x10", "hash": "0xabc", "timestamp": 1727308800, "gas_used": 50, "gas_limit": 100},
		"transactions": [{"hash": "0x1111111111111111111111111111", "from": "0x2222222222222222222222", "value": "0"}],
		"uncles": []
	}`), &blk))

	out := render(t, &BlockCard{Block: blk, Now: now})
	assert.Contains(t, out, "Block #16")
	assert.Contains(t, out, "50 / 100 (50.0%)")
	assert.Contains(t, out, "Transactions:  1")
	assert.Contains(t, out, "0x111111...111111")
}

func TestBlockRangeTableEmpty(t *testing.T) {
	out := render(t, &BlockRangeTable{Now: now})
	assert.Contains(t, out, "No blocks in range.")
}

func TestDebugDrawer(t *testing.T) {
	resp := &api.Response{
		URL:      "http://localhost:8080/api/eth/getBalance/" + vitalik + "/2024-09-25?onMiss=strict",
		Endpoint: "http://localhost:8080/api/eth/getBalance/" + vitalik + "/2024-09-25",
		Params:   api.Params{}.AddString("on_miss", string(api.OnMissStrict)).AddStrings("tokens", []string{"0xa", "0xb"}),
		Status:   200,
		Body:     []byte(`{}`),
		Latency:  25 * time.Millisecond,
	}
	out := render(t, &DebugDrawer{Response: resp})
	assert.Contains(t, out, `curl -X GET "http://localhost:8080/api/eth/getBalance/`+vitalik+`/2024-09-25?onMiss=strict"`)
	assert.Contains(t, out, "onMiss = strict")
	assert.Contains(t, out, "tokens[] = 0xa, 0xb")
	assert.Contains(t, out, "2 B")
	assert.Contains(t, out, "25ms")

	assert.Empty(t, render(t, &DebugDrawer{}))
}

func TestStrictMissGuidance(t *testing.T) {
	apiErr := &api.APIError{Status: http.StatusNotFound, Message: "Not Found: no block"}
	form := query.BalanceForm{Address: vitalik, Date: "2024-09-25"}

	assert.True(t, ShowsStrictMiss(apiErr, form.Mode()))
	assert.False(t, ShowsStrictMiss(apiErr, api.OnMissClamp))
	assert.False(t, ShowsStrictMiss(&api.APIError{Status: 500}, api.OnMissStrict))
	assert.False(t, ShowsStrictMiss(nil, api.OnMissStrict))

	out := render(t, &StrictMissGuidance{Err: apiErr, Form: form})
	assert.Contains(t, out, "Switch to Clamp Mode")
	assert.Contains(t, out, "Switch to Auto Widen")
	assert.Contains(t, out, "explorer balance "+vitalik+" 2024-09-25 --on-miss clamp")
	assert.Contains(t, out, "explorer balance "+vitalik+" 2024-09-25 --on-miss auto_widen")
}

func TestErrorBlocks(t *testing.T) {
	out := render(t, &APIErrorBlock{Err: &api.APIError{Status: 500, Message: "Internal Server Error: boom"}})
	assert.Equal(t, "Error 500: Internal Server Error: boom\n", out)

	out = render(t, &FieldErrorsBlock{Errs: validate.FieldErrors{"date": "Date is required", "address": "Address is required"}})
	assert.Less(t, strings.Index(out, "address"), strings.Index(out, "date"))

	out = render(t, &TransportNotice{Err: errors.New("connection refused")})
	assert.Contains(t, out, "Request failed: connection refused")
}

func TestTransfersAndTraces(t *testing.T) {
	out := render(t, &TransfersTable{Range: "[1, 2)"})
	assert.Contains(t, out, "ERC-20 Transfers (0)")
	assert.Contains(t, out, "No transfers in this block range.")

	var traces []api.TraceResult
	require.NoError(t, json.Unmarshal([]byte(`[
		{"action": {"from": "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa", "to": "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb", "value": "0xde0b6b3a7640000"},
		 "blockNumber": 100, "transactionHash": "0xcccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccccc"}
	]`), &traces))
	out = render(t, &TracesTable{Traces: traces, Range: "[100, 200)"})
	assert.Contains(t, out, "Traces (1)")
	assert.Contains(t, out, "0xcccccc...cccccc")
	assert.Contains(t, out, "1.0000")
}

func TestRecentTable(t *testing.T) {
	out := render(t, &RecentTable{Now: now})
	assert.Contains(t, out, "No recent queries yet.")

	out = render(t, &RecentTable{Now: now, Entries: []history.RecentQuery{
		{ID: "1727222400000", Type: "Balance", Query: "0xd8dA6B...A96045 on 2024-09-25", Timestamp: now.Add(-2 * time.Hour), Status: history.StatusSuccess},
	}})
	assert.Contains(t, out, "Balance")
	assert.Contains(t, out, "2h ago")
	assert.Contains(t, out, "1 of 10 slots used")
}

func TestStatusCard(t *testing.T) {
	snap := dashboard.Snapshot{
		Timestamp:   now,
		Ping:        dashboard.ProbeResult{Target: dashboard.TargetPing, Status: dashboard.StatusUp, Latency: 20 * time.Millisecond, Detail: "pong"},
		RPCInfo:     dashboard.ProbeResult{Target: dashboard.TargetRPCInfo, Status: dashboard.StatusUp, Latency: 30 * time.Millisecond},
		Head:        dashboard.ProbeResult{Target: dashboard.TargetRPC, Status: dashboard.StatusDown, Err: errors.New("eth_blockNumber: HTTP 503")},
		Info:        &api.RPCInfoResponse{RPCURLs: []string{"https://a.example"}, ParallelPerRPC: 2},
		PingTail:    stats.TailLatency{Samples: 3, P50: 20 * time.Millisecond, P95: 40 * time.Millisecond, Max: 40 * time.Millisecond},
		LatestBlock: 0,
	}
	out := render(t, &StatusCard{Snapshot: snap, BaseURL: "http://localhost:8080", Interval: 10 * time.Second})
	assert.Contains(t, out, "refresh: 10s")
	assert.Contains(t, out, "⚠ DEGRADED")
	assert.Contains(t, out, "pong")
	assert.Contains(t, out, "1 RPC URLs")
	assert.Contains(t, out, "HTTP 503")
	assert.Contains(t, out, "https://a.example")
	assert.Contains(t, out, "p95 40ms")
}
