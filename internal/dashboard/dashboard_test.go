package dashboard

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/metrics"
	"github.com/dmagro/eth-indexer-explorer/internal/rpc"
)

func indexerServer(t *testing.T, pingStatus int) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ping", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(pingStatus)
		_, _ = w.Write([]byte(`{"message":"pong"}`))
	})
	mux.HandleFunc("/api/rpc-info", func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"rpc_urls":["https://a.example","https://b.example"],"parallel_per_rpc":4}`))
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func headServer(t *testing.T, result string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"jsonrpc":"2.0","id":1,"result":"` + result + `"}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newProber(t *testing.T, indexerURL, rpcURL string, m *metrics.Metrics) *Prober {
	t.Helper()
	client, err := api.NewClient(indexerURL, 0, nil, m)
	require.NoError(t, err)
	var rpcClient *rpc.Client
	if rpcURL != "" {
		rpcClient = rpc.NewClient(rpcURL, 0)
	}
	return NewProber(client, rpcClient, "/ping", m, nil)
}

func TestProbeAllUp(t *testing.T) {
	m := metrics.New()
	p := newProber(t, indexerServer(t, http.StatusOK).URL, headServer(t, "0x10").URL, m)

	snap := p.Probe(context.Background())

	assert.Equal(t, StatusUp, snap.Overall())
	assert.Equal(t, "pong", snap.Ping.Detail)
	require.NotNil(t, snap.Info)
	assert.Len(t, snap.Info.RPCURLs, 2)
	assert.Equal(t, 4, snap.Info.ParallelPerRPC)
	assert.EqualValues(t, 16, snap.LatestBlock)
	assert.Equal(t, 1, snap.PingTail.Samples)

	expected := `
# HELP explorer_latest_block Latest block number reported by the RPC endpoint
# TYPE explorer_latest_block gauge
explorer_latest_block 16
# HELP explorer_indexer_rpc_endpoints Number of upstream RPC URLs reported by the indexer
# TYPE explorer_indexer_rpc_endpoints gauge
explorer_indexer_rpc_endpoints 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry(), strings.NewReader(expected),
		"explorer_latest_block", "explorer_indexer_rpc_endpoints"))
}

func TestProbePartialFailure(t *testing.T) {
	p := newProber(t, indexerServer(t, http.StatusServiceUnavailable).URL, "", nil)

	snap := p.Probe(context.Background())

	assert.Equal(t, StatusDown, snap.Ping.Status)
	var apiErr *api.APIError
	require.True(t, errors.As(snap.Ping.Err, &apiErr))
	assert.Equal(t, http.StatusServiceUnavailable, apiErr.Status)

	assert.Equal(t, StatusUp, snap.RPCInfo.Status)
	assert.Equal(t, StatusDown, snap.Head.Status)
	assert.ErrorIs(t, snap.Head.Err, errNoRPC)
	assert.Equal(t, StatusDegraded, snap.Overall())
	assert.Zero(t, snap.PingTail.Samples)
}

func TestProbeIndexerOffline(t *testing.T) {
	srv := indexerServer(t, http.StatusOK)
	srv.Close()
	p := newProber(t, srv.URL, "", nil)

	snap := p.Probe(context.Background())
	assert.Equal(t, StatusDown, snap.Overall())
	_, isAPI := api.AsAPIError(snap.Ping.Err)
	assert.False(t, isAPI)
}

func TestOverall(t *testing.T) {
	snap := func(a, b, c Status) Snapshot {
		return Snapshot{Ping: ProbeResult{Status: a}, RPCInfo: ProbeResult{Status: b}, Head: ProbeResult{Status: c}}
	}
	tests := []struct {
		name string
		snap Snapshot
		want Status
	}{
		{"all up", snap(StatusUp, StatusUp, StatusUp), StatusUp},
		{"one slow", snap(StatusUp, StatusSlow, StatusUp), StatusSlow},
		{"one down", snap(StatusUp, StatusUp, StatusDown), StatusDegraded},
		{"all down", snap(StatusDown, StatusDown, StatusDown), StatusDown},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.snap.Overall())
		})
	}
}

func TestDetermineStatus(t *testing.T) {
	assert.Equal(t, StatusDown, determineStatus(0, errors.New("boom"), time.Second))
	assert.Equal(t, StatusSlow, determineStatus(2*time.Second, nil, time.Second))
	assert.Equal(t, StatusUp, determineStatus(10*time.Millisecond, nil, time.Second))
	assert.Equal(t, StatusUp, determineStatus(time.Hour, nil, 0))
}

func TestRunStopsOnCancel(t *testing.T) {
	p := newProber(t, indexerServer(t, http.StatusOK).URL, headServer(t, "0x1").URL, nil)

	ctx, cancel := context.WithCancel(context.Background())
	var cycles atomic.Int32
	done := make(chan error, 1)
	go func() {
		done <- p.Run(ctx, 10*time.Millisecond, func(Snapshot) {
			if cycles.Add(1) == 3 {
				cancel()
			}
		})
	}()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.GreaterOrEqual(t, cycles.Load(), int32(3))
	assert.Equal(t, int(cycles.Load()), p.window.Len())
}
