package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveRequest(t *testing.T) {
	m := New()

	m.ObserveRequest("getBalance", OutcomeOK, 120*time.Millisecond)
	m.ObserveRequest("getBalance", OutcomeOK, 80*time.Millisecond)
	m.ObserveRequest("getBalance", OutcomeHTTPError, 10*time.Millisecond)
	m.ObserveRequest("ping", OutcomeTransportError, 0)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("getBalance", OutcomeOK)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("getBalance", OutcomeHTTPError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.apiRequests.WithLabelValues("ping", OutcomeTransportError)))
}

func TestGauges(t *testing.T) {
	m := New()
	m.SetProbe("ping", true, 50*time.Millisecond)
	m.SetProbe("rpc", false, 0)
	m.SetLatestBlock(18_000_000)
	m.SetRPCEndpoints(3)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.probeUp.WithLabelValues("ping")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.probeUp.WithLabelValues("rpc")))
	assert.Equal(t, 18_000_000.0, testutil.ToFloat64(m.latestBlock))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rpcEndpoints))
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	m.ObserveRequest("ping", OutcomeOK, time.Millisecond)
	m.SetProbe("ping", true, time.Millisecond)
	m.SetLatestBlock(1)
	m.SetRPCEndpoints(1)
}

func TestHandler(t *testing.T) {
	m := New()
	m.SetLatestBlock(42)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "explorer_latest_block 42")
}
