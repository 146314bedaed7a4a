package reports

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrefix(t *testing.T) {
	tests := map[string]string{
		"Balance":       "balance",
		"ERC-20 Wallet": "erc-20-wallet",
		"Trace Filter":  "trace-filter",
		"  ":            "report",
	}
	for in, want := range tests {
		assert.Equal(t, want, Prefix(in), in)
	}
}

func TestWriteJSON(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	path, err := WriteJSON(dir, "status", map[string]int{"blocks": 3})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(filepath.Base(path), "status-"))
	assert.Equal(t, ".json", filepath.Ext(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"blocks": 3}`, string(data))
}

func TestWriteJSONMarshalError(t *testing.T) {
	_, err := WriteJSON(t.TempDir(), "", make(chan int))
	assert.ErrorContains(t, err, "marshal JSON")
}

func TestNewQueryReport(t *testing.T) {
	now := time.Date(2024, 9, 25, 12, 0, 0, 0, time.UTC)
	resp := &api.Response{
		URL:     "http://localhost:8080/api/eth/getLogs?from=1&tokens%5B%5D=0xa",
		Params:  api.Params{}.AddUint("from", 1).AddStrings("tokens", []string{"0xa"}),
		Status:  200,
		Body:    json.RawMessage(`{"logs":[]}`),
		Latency: 42 * time.Millisecond,
	}

	r := NewQueryReport("Logs", "Logs 1-2 (0 logs)", "explorer logs --from 1 --to 2", resp, now)
	assert.Equal(t, int64(42), r.LatencyMS)
	assert.Equal(t, 11, r.SizeBytes)
	assert.Equal(t, "1", r.Params["from"])
	assert.Equal(t, []string{"0xa"}, r.Params["tokens"])

	b, err := json.Marshal(r)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"response":{"logs":[]}`)

	empty := NewQueryReport("Logs", "", "", nil, now)
	assert.Empty(t, empty.URL)
	assert.Nil(t, empty.Params)
}
