package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/format"
)

// CurlCommand is the shell command that repeats a GET request.
func CurlCommand(url string) string {
	return fmt.Sprintf("curl -X GET %q", url)
}

// DebugDrawer shows how a response was obtained: the request URL, its
// parameters, the response size, and a curl command that reproduces it.
type DebugDrawer struct {
	Response *api.Response
}

func (f *DebugDrawer) Format(w io.Writer) error {
	r := f.Response
	if r == nil {
		return nil
	}
	fmt.Fprintln(w, Dim("── debug "+strings.Repeat("─", 42)))
	field(w, "Endpoint", r.Endpoint)
	field(w, "URL", r.URL)
	if len(r.Params) == 0 {
		field(w, "Params", Dim("none"))
	} else {
		fmt.Fprintf(w, "  %-14s\n", "Params:")
		for _, p := range r.Params {
			key := p.Key
			if p.Array {
				key += "[]"
			}
			fmt.Fprintf(w, "    %s = %s\n", key, strings.Join(p.Values, ", "))
		}
	}
	field(w, "Status", r.Status)
	field(w, "Latency", ColorLatency(r.Latency.Milliseconds()))
	field(w, "Size", format.FormatBytes(r.Size()))
	field(w, "curl", CurlCommand(r.URL))
	fmt.Fprintln(w)
	return nil
}
