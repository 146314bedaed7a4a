package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
)

func traceCmd(a *app) *cobra.Command {
	var (
		form  query.TraceForm
		chunk uint64
	)

	cmd := &cobra.Command{
		Use:   "trace [address]",
		Short: "Call traces touching an address, one block window at a time",
		Long: `Page through trace_filter results. Without an address, traces of every
address in the window are returned.

The window size comes from --chunk, then the stored setting
("explorer settings chunk-size"), then the config default.

Examples:
  explorer trace 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --start 18000000
  explorer trace --start 18000000 --page 1 --chunk 100`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				form.Address = args[0]
			}
			size, err := a.traceChunk(cmd.Context(), chunk)
			if err != nil {
				return err
			}
			return a.runQuery(cmd.Context(), a.traceRun(form, size))
		},
	}

	cmd.Flags().StringVar(&form.StartBlock, "start", "", "First block of page 0 (required)")
	cmd.Flags().Uint64Var(&form.Page, "page", 0, "Page index")
	cmd.Flags().Uint64Var(&chunk, "chunk", 0, "Blocks per page (overrides the stored setting)")
	return cmd
}

// traceChunk resolves the trace window: explicit flag, stored setting, config default.
func (a *app) traceChunk(ctx context.Context, flag uint64) (uint64, error) {
	if flag > 0 {
		return flag, nil
	}
	size, _, err := a.settings.TraceChunkSize(ctx, a.cfg.Query.TraceChunkSize)
	return size, err
}

func (a *app) traceRun(form query.TraceForm, chunk uint64) queryRun {
	return queryRun{
		form:      form,
		addresses: []string{form.Address},
		window: func() error {
			_, err := form.Range(chunk)
			return err
		},
		call: func(ctx context.Context) (*api.Response, error) {
			r, err := form.Range(chunk)
			if err != nil {
				return nil, err
			}
			return a.client.GetTraceFilter(ctx, form.Address, api.TraceQuery{StartBlock: &r.Start, EndBlock: &r.End})
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			var traces []api.TraceResult
			if err := resp.Decode(&traces); err != nil {
				return nil, 0, err
			}
			r, _ := form.Range(chunk)
			return &display.TracesTable{Traces: traces, Range: r.String()}, len(traces), nil
		},
	}
}
