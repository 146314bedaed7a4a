// Package metrics exposes the explorer's Prometheus instruments.
//
// Every Metrics value owns a private registry so tests and multiple clients
// never collide on the global default registerer. `explorer watch
// --metrics-addr` serves the registry over HTTP.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "explorer"

// Request outcomes recorded by ObserveRequest.
const (
	OutcomeOK             = "ok"
	OutcomeHTTPError      = "http_error"
	OutcomeParseError     = "parse_error"
	OutcomeTransportError = "transport_error"
)

type Metrics struct {
	registry *prometheus.Registry

	apiRequests  *prometheus.CounterVec
	apiLatency   *prometheus.HistogramVec
	probeUp      *prometheus.GaugeVec
	probeLatency *prometheus.GaugeVec
	latestBlock  prometheus.Gauge
	rpcEndpoints prometheus.Gauge
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	auto := promauto.With(registry)

	return &Metrics{
		registry: registry,
		apiRequests: auto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "api_requests_total",
			Help:      "Indexer API requests by operation and outcome",
		}, []string{"operation", "outcome"}),
		apiLatency: auto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "api_request_duration_seconds",
			Help:      "Indexer API request latency",
			Buckets:   []float64{.01, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		probeUp: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_up",
			Help:      "1 when the last dashboard probe of the target succeeded",
		}, []string{"target"}),
		probeLatency: auto.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "probe_latency_seconds",
			Help:      "Latency of the last dashboard probe of the target",
		}, []string{"target"}),
		latestBlock: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latest_block",
			Help:      "Latest block number reported by the RPC endpoint",
		}),
		rpcEndpoints: auto.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "indexer_rpc_endpoints",
			Help:      "Number of upstream RPC URLs reported by the indexer",
		}),
	}
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the private registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveRequest counts one API request. A nil receiver is a no-op so callers
// may run without metrics.
func (m *Metrics) ObserveRequest(operation, outcome string, latency time.Duration) {
	if m == nil {
		return
	}
	m.apiRequests.WithLabelValues(operation, outcome).Inc()
	if outcome != OutcomeTransportError {
		m.apiLatency.WithLabelValues(operation).Observe(latency.Seconds())
	}
}

func (m *Metrics) SetProbe(target string, up bool, latency time.Duration) {
	if m == nil {
		return
	}
	v := 0.0
	if up {
		v = 1
	}
	m.probeUp.WithLabelValues(target).Set(v)
	m.probeLatency.WithLabelValues(target).Set(latency.Seconds())
}

func (m *Metrics) SetLatestBlock(n uint64) {
	if m == nil {
		return
	}
	m.latestBlock.Set(float64(n))
}

func (m *Metrics) SetRPCEndpoints(n int) {
	if m == nil {
		return
	}
	m.rpcEndpoints.Set(float64(n))
}
