// Package dashboard runs the health probes behind "explorer status" and
// "explorer watch".
//
// A probe cycle checks three things concurrently: the indexer ping route, the
// indexer's RPC pool (/api/rpc-info) and the chain head reported by the
// JSON-RPC endpoint. Every probe is attempted even when another fails; the
// cycle never fails as a whole.
package dashboard

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	"github.com/dmagro/eth-indexer-explorer/internal/metrics"
	"github.com/dmagro/eth-indexer-explorer/internal/rpc"
	"github.com/dmagro/eth-indexer-explorer/internal/stats"
)

// Probe targets, also used as the metrics label.
const (
	TargetPing    = "ping"
	TargetRPCInfo = "rpc_info"
	TargetRPC     = "rpc"
)

const (
	// DefaultSlowThreshold marks a successful probe as slow.
	DefaultSlowThreshold = time.Second
	// latencyWindow is how many ping samples a watch session keeps.
	latencyWindow = 100
)

// Prober runs probe cycles. A Prober is reused across cycles of one watch
// session so the ping latency tail accumulates.
type Prober struct {
	api       *api.Client
	rpc       *rpc.Client
	pingRoute string
	metrics   *metrics.Metrics
	log       *logger.Logger
	window    *stats.Window
	slow      time.Duration
	now       func() time.Time
}

// NewProber creates a prober. rpcClient and m may be nil; a nil rpcClient
// reports the chain head probe as down.
func NewProber(client *api.Client, rpcClient *rpc.Client, pingRoute string, m *metrics.Metrics, log *logger.Logger) *Prober {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Prober{
		api:       client,
		rpc:       rpcClient,
		pingRoute: pingRoute,
		metrics:   m,
		log:       log.WithComponent("dashboard"),
		window:    stats.NewWindow(latencyWindow),
		slow:      DefaultSlowThreshold,
		now:       time.Now,
	}
}

// Probe runs one cycle. The three probes run concurrently and the snapshot is
// returned once all of them finished.
func (p *Prober) Probe(ctx context.Context) Snapshot {
	snap := Snapshot{Timestamp: p.now()}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		snap.Ping = p.probePing(gctx)
		return nil
	})
	g.Go(func() error {
		snap.RPCInfo, snap.Info = p.probeRPCInfo(gctx)
		return nil
	})
	g.Go(func() error {
		snap.Head, snap.LatestBlock = p.probeHead(gctx)
		return nil
	})
	_ = g.Wait()

	snap.PingTail = p.window.Tail()
	p.log.Debugw("probe cycle finished",
		"ping", snap.Ping.Status, "rpc_info", snap.RPCInfo.Status, "rpc", snap.Head.Status,
		"latest_block", snap.LatestBlock)
	return snap
}

// Run probes once immediately and then every interval until ctx is cancelled,
// handing each snapshot to fn. The ticker is stopped before Run returns.
func (p *Prober) Run(ctx context.Context, interval time.Duration, fn func(Snapshot)) error {
	fn(p.Probe(ctx))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if ctx.Err() != nil {
				continue
			}
			fn(p.Probe(ctx))
		}
	}
}

func (p *Prober) probePing(ctx context.Context) ProbeResult {
	start := time.Now()
	resp, err := p.api.Ping(ctx, p.pingRoute)
	latency := time.Since(start)
	if err == nil {
		latency = resp.Latency
		p.window.Add(latency)
	}

	r := p.result(TargetPing, latency, err)
	if err == nil {
		var body api.PingResponse
		if resp.Decode(&body) == nil {
			r.Detail = body.Message
		}
	}
	return r
}

func (p *Prober) probeRPCInfo(ctx context.Context) (ProbeResult, *api.RPCInfoResponse) {
	start := time.Now()
	info, resp, err := p.api.RPCInfo(ctx)
	latency := time.Since(start)
	if resp != nil {
		latency = resp.Latency
	}

	r := p.result(TargetRPCInfo, latency, err)
	if err != nil {
		return r, nil
	}
	p.metrics.SetRPCEndpoints(len(info.RPCURLs))
	return r, info
}

func (p *Prober) probeHead(ctx context.Context) (ProbeResult, uint64) {
	if p.rpc == nil {
		return p.result(TargetRPC, 0, errNoRPC), 0
	}
	height, latency, err := p.rpc.BlockNumber(ctx)
	r := p.result(TargetRPC, latency, err)
	if err != nil {
		return r, 0
	}
	p.metrics.SetLatestBlock(height)
	return r, height
}

// result classifies a finished probe and records it in the metrics.
func (p *Prober) result(target string, latency time.Duration, err error) ProbeResult {
	status := determineStatus(latency, err, p.slow)
	p.metrics.SetProbe(target, err == nil, latency)
	if err != nil {
		p.log.Debugw("probe failed", "target", target, "error", err)
	}
	return ProbeResult{Target: target, Status: status, Latency: latency, Err: err}
}
