package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/dashboard"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/reports"
	"github.com/dmagro/eth-indexer-explorer/internal/rpc"
)

func statusCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "One health check of the indexer and the RPC endpoint",
		Long: `Ping the indexer, fetch its RPC pool and read the chain head from the
configured RPC endpoint, all concurrently.

Example:
  explorer status`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snap := a.newProber().Probe(cmd.Context())
			if err := a.showSnapshot(snap, 0); err != nil {
				return err
			}
			if a.opts.jsonReport {
				a.writeStatusReport(snap)
			}
			if snap.Overall() == dashboard.StatusDown {
				return errReported
			}
			return nil
		},
	}
}

func watchCmd(a *app) *cobra.Command {
	var (
		interval    time.Duration
		metricsAddr string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh the health check until interrupted",
		Long: `Run the status check immediately and then on every refresh interval until Ctrl+C.

Examples:
  explorer watch
  explorer watch --interval 5s --metrics-addr :9102`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if interval <= 0 {
				interval = a.cfg.Dashboard.RefreshInterval
			}
			return a.runWatch(cmd.Context(), interval, metricsAddr)
		},
	}

	cmd.Flags().DurationVar(&interval, "interval", 0, "Refresh interval (defaults to config)")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "Serve Prometheus metrics on this address while watching")
	return cmd
}

func (a *app) newProber() *dashboard.Prober {
	var rpcClient *rpc.Client
	if a.cfg.RPC.URL != "" {
		rpcClient = rpc.NewClient(a.cfg.RPC.URL, a.cfg.RPC.Timeout)
	}
	return dashboard.NewProber(a.client, rpcClient, a.cfg.API.PingRoute, a.metrics, a.log)
}

func (a *app) showSnapshot(snap dashboard.Snapshot, interval time.Duration) error {
	if a.format == display.FormatJSON {
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(newStatusReport(snap))
	}
	return a.render(&display.StatusCard{
		Snapshot: snap,
		BaseURL:  a.client.BaseURL(),
		RPCURL:   a.cfg.RPC.URL,
		Interval: interval,
	})
}

func (a *app) runWatch(ctx context.Context, interval time.Duration, metricsAddr string) error {
	if metricsAddr != "" {
		srv := &http.Server{Addr: metricsAddr, Handler: a.metricsMux(), ReadHeaderTimeout: 5 * time.Second}
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				a.log.Errorw("metrics server failed", "addr", metricsAddr, "error", err)
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
		a.log.Infow("serving metrics", "addr", metricsAddr, "path", "/metrics")
	}

	var last *dashboard.Snapshot
	err := a.newProber().Run(ctx, interval, func(snap dashboard.Snapshot) {
		last = &snap
		if a.format == display.FormatTerminal {
			display.Clear(a.out)
		}
		if err := a.showSnapshot(snap, interval); err != nil {
			a.log.Warnw("failed to render status", "error", err)
		}
	})

	if a.format == display.FormatTerminal {
		fmt.Fprintln(a.out, "Exiting...")
	}
	if a.opts.jsonReport && last != nil {
		a.writeStatusReport(*last)
	}
	return err
}

func (a *app) metricsMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.Handle("/metrics", a.metrics.Handler())
	return mux
}

// statusReport is the JSON form of a probe cycle.
type statusReport struct {
	Timestamp   time.Time     `json:"timestamp"`
	Overall     string        `json:"overall"`
	Probes      []probeReport `json:"probes"`
	LatestBlock uint64        `json:"latest_block,omitempty"`
	RPCURLs     []string      `json:"rpc_urls,omitempty"`
	PingP50MS   int64         `json:"ping_p50_ms"`
	PingP95MS   int64         `json:"ping_p95_ms"`
	PingMaxMS   int64         `json:"ping_max_ms"`
}

type probeReport struct {
	Target    string `json:"target"`
	Status    string `json:"status"`
	LatencyMS int64  `json:"latency_ms"`
	Detail    string `json:"detail,omitempty"`
	Error     string `json:"error,omitempty"`
}

func newStatusReport(snap dashboard.Snapshot) statusReport {
	r := statusReport{
		Timestamp:   snap.Timestamp,
		Overall:     string(snap.Overall()),
		LatestBlock: snap.LatestBlock,
		PingP50MS:   snap.PingTail.P50.Milliseconds(),
		PingP95MS:   snap.PingTail.P95.Milliseconds(),
		PingMaxMS:   snap.PingTail.Max.Milliseconds(),
	}
	if snap.Info != nil {
		r.RPCURLs = snap.Info.RPCURLs
	}
	for _, p := range snap.Probes() {
		pr := probeReport{
			Target:    p.Target,
			Status:    string(p.Status),
			LatencyMS: p.Latency.Milliseconds(),
			Detail:    p.Detail,
		}
		if p.Err != nil {
			pr.Error = p.Err.Error()
		}
		r.Probes = append(r.Probes, pr)
	}
	return r
}

func (a *app) writeStatusReport(snap dashboard.Snapshot) {
	path, err := reports.WriteJSON(reportsDir, "status", newStatusReport(snap))
	if err != nil {
		a.log.Warnw("failed to write JSON report", "error", err)
		return
	}
	fmt.Fprintf(a.errOut, "JSON report written to: %s\n", path)
}
