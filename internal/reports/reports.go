// Package reports writes timestamped JSON report files.
//
// Commands use this package when the --json flag is set. Reports land in the
// "reports/" directory of the current working directory unless told otherwise.
package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
)

// DefaultDir is where reports are written.
const DefaultDir = "reports"

// QueryReport is the record of one query: what was asked, what was sent, and
// the raw body that came back.
type QueryReport struct {
	Type        string          `json:"type"`
	Query       string          `json:"query"`
	Command     string          `json:"command"`
	URL         string          `json:"url"`
	Params      map[string]any  `json:"params,omitempty"`
	Status      int             `json:"status"`
	LatencyMS   int64           `json:"latency_ms"`
	SizeBytes   int             `json:"size_bytes"`
	GeneratedAt time.Time       `json:"generated_at"`
	Response    json.RawMessage `json:"response"`
}

// NewQueryReport fills a report from a completed response.
func NewQueryReport(kind, summary, command string, resp *api.Response, now time.Time) QueryReport {
	r := QueryReport{
		Type:        kind,
		Query:       summary,
		Command:     command,
		GeneratedAt: now.UTC(),
	}
	if resp == nil {
		return r
	}
	r.URL = resp.URL
	r.Status = resp.Status
	r.LatencyMS = resp.Latency.Milliseconds()
	r.SizeBytes = resp.Size()
	r.Response = resp.Body
	if len(resp.Params) > 0 {
		r.Params = make(map[string]any, len(resp.Params))
		for _, p := range resp.Params {
			if p.Array {
				r.Params[p.Key] = p.Values
			} else {
				r.Params[p.Key] = p.Values[0]
			}
		}
	}
	return r
}

var unsafePrefix = regexp.MustCompile(`[^a-z0-9]+`)

// Prefix turns a query kind such as "ERC-20 Wallet" into a file name prefix.
func Prefix(kind string) string {
	p := strings.Trim(unsafePrefix.ReplaceAllString(strings.ToLower(kind), "-"), "-")
	if p == "" {
		return "report"
	}
	return p
}

// WriteJSON pretty-prints data into {dir}/{prefix}-{YYYYMMDD-HHMMSS}.json.
//
// Parameters:
//   - dir: target directory, created when missing; "" selects DefaultDir.
//   - prefix: filename prefix (e.g. "balance", "status").
//   - data: any JSON-marshalable value.
//
// Returns the path of the written file.
func WriteJSON(dir, prefix string, data any) (string, error) {
	if dir == "" {
		dir = DefaultDir
	}
	if prefix == "" {
		prefix = "report"
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create reports directory: %w", err)
	}

	ts := time.Now().UTC().Format("20060102-150405")
	path := filepath.Join(dir, fmt.Sprintf("%s-%s.json", prefix, ts))

	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal JSON: %w", err)
	}

	if err := os.WriteFile(path, b, 0o644); err != nil {
		return "", fmt.Errorf("write report: %w", err)
	}

	return path, nil
}
