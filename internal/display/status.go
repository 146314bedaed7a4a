package display

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/dashboard"
	"github.com/dmagro/eth-indexer-explorer/internal/format"
)

// StatusCard renders one dashboard probe cycle.
type StatusCard struct {
	Snapshot dashboard.Snapshot
	BaseURL  string
	RPCURL   string
	// Interval is set in watch mode and shown in the header.
	Interval time.Duration
}

func (f *StatusCard) Format(w io.Writer) error {
	s := f.Snapshot

	title := "Indexer Status"
	if f.Interval > 0 {
		title = fmt.Sprintf("Indexer Status (refresh: %s, Ctrl+C to exit)", f.Interval)
	}
	heading(w, title)
	field(w, "API", f.BaseURL)
	if f.RPCURL != "" {
		field(w, "RPC", f.RPCURL)
	}
	field(w, "Checked", s.Timestamp.Format("15:04:05"))
	field(w, "Overall", statusLabel(s.Overall()))
	fmt.Fprintln(w)

	tbl := newTable(w, "Probe", "Status", "Latency", "Detail")
	for _, r := range s.Probes() {
		latency := "-"
		if r.Latency > 0 {
			latency = ColorLatency(r.Latency.Milliseconds())
		}
		tbl.AddRow(r.Target, statusLabel(r.Status), latency, probeDetail(s, r))
	}
	tbl.Print()
	fmt.Fprintln(w)

	if s.Info != nil && len(s.Info.RPCURLs) > 0 {
		fmt.Fprintf(w, "%s (%d parallel per RPC)\n", Bold("Indexer RPC pool"), s.Info.ParallelPerRPC)
		for _, u := range s.Info.RPCURLs {
			fmt.Fprintf(w, "  • %s\n", u)
		}
		fmt.Fprintln(w)
	}

	if t := s.PingTail; t.Samples > 1 {
		fmt.Fprintf(w, "%s over %d samples: p50 %s  p95 %s  max %s\n\n",
			Bold("Ping latency"), t.Samples,
			ColorLatency(t.P50.Milliseconds()), ColorLatency(t.P95.Milliseconds()), ColorLatency(t.Max.Milliseconds()))
	}
	return nil
}

func probeDetail(s dashboard.Snapshot, r dashboard.ProbeResult) string {
	if r.Err != nil {
		return Red(truncate(r.Err.Error(), 60))
	}
	switch r.Target {
	case dashboard.TargetPing:
		return orDash(r.Detail)
	case dashboard.TargetRPCInfo:
		if s.Info != nil {
			return fmt.Sprintf("%d RPC URLs", len(s.Info.RPCURLs))
		}
	case dashboard.TargetRPC:
		return "block " + format.FormatNumber(s.LatestBlock)
	}
	return "-"
}

func statusLabel(st dashboard.Status) string {
	switch st {
	case dashboard.StatusUp:
		return Green("✓ UP")
	case dashboard.StatusSlow:
		return Yellow("⚠ SLOW")
	case dashboard.StatusDegraded:
		return Yellow("⚠ DEGRADED")
	case dashboard.StatusDown:
		return Red("✗ DOWN")
	default:
		return "?"
	}
}

func truncate(s string, n int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= n {
		return string(r)
	}
	return string(r[:n]) + "..."
}
