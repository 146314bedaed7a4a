package dashboard

import (
	"errors"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/stats"
)

var errNoRPC = errors.New("no RPC URL configured")

// Status is the health of one probe or of a whole cycle.
type Status string

const (
	StatusUp       Status = "UP"
	StatusSlow     Status = "SLOW"
	StatusDegraded Status = "DEGRADED"
	StatusDown     Status = "DOWN"
)

// ProbeResult is the outcome of a single probe.
type ProbeResult struct {
	Target  string
	Status  Status
	Latency time.Duration
	Detail  string
	Err     error
}

// Snapshot is the outcome of one probe cycle.
type Snapshot struct {
	Timestamp   time.Time
	Ping        ProbeResult
	RPCInfo     ProbeResult
	Head        ProbeResult
	Info        *api.RPCInfoResponse
	LatestBlock uint64
	PingTail    stats.TailLatency
}

// Probes returns the three results in display order.
func (s Snapshot) Probes() []ProbeResult {
	return []ProbeResult{s.Ping, s.RPCInfo, s.Head}
}

// Overall folds the probe results into one status: UP when every probe is up,
// DOWN when every probe is down, SLOW when nothing failed but something was
// slow, DEGRADED otherwise.
func (s Snapshot) Overall() Status {
	var up, slow, down int
	for _, r := range s.Probes() {
		switch r.Status {
		case StatusUp:
			up++
		case StatusSlow:
			slow++
		default:
			down++
		}
	}
	total := up + slow + down
	switch {
	case up == total:
		return StatusUp
	case down == total:
		return StatusDown
	case down == 0:
		return StatusSlow
	default:
		return StatusDegraded
	}
}

func determineStatus(latency time.Duration, err error, slow time.Duration) Status {
	switch {
	case err != nil:
		return StatusDown
	case slow > 0 && latency > slow:
		return StatusSlow
	default:
		return StatusUp
	}
}
