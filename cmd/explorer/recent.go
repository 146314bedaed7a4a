package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/history"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
)

func recentCmd(a *app) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "recent",
		Short: "List the most recent successful queries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.ledger.List(cmd.Context())
			if err != nil {
				return err
			}
			if entries == nil {
				entries = []history.RecentQuery{}
			}
			if limit > 0 && limit < len(entries) {
				entries = entries[:limit]
			}
			if a.format == display.FormatJSON {
				enc := json.NewEncoder(a.out)
				enc.SetIndent("", "  ")
				return enc.Encode(entries)
			}
			return a.render(&display.RecentTable{Entries: entries, Now: a.now()})
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 0, "Show at most this many entries")

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Forget every recent query",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := a.ledger.Clear(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(a.out, "Recent queries cleared.")
			return nil
		},
	})
	return cmd
}

func rerunCmd(a *app) *cobra.Command {
	var page uint64

	cmd := &cobra.Command{
		Use:   "rerun <#|id>",
		Short: "Repeat a recent query",
		Long: `Repeat a query from the recent list, by its position (1 is the newest) or its id.

Paged queries restart at page 0 unless --page is given.

Examples:
  explorer rerun 1
  explorer rerun 1727222400000 --page 3`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			entry, err := a.ledger.Find(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if entry.Href == "" {
				return fmt.Errorf("recent query %s has no link to rerun", entry.ID)
			}
			form, err := query.ParseHref(entry.Href)
			if err != nil {
				return err
			}
			run, err := a.runFor(cmd.Context(), form, page)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.errOut, display.Dim("$ "+form.Command()))
			return a.runQuery(cmd.Context(), run)
		},
	}
	cmd.Flags().Uint64Var(&page, "page", 0, "Page index for paged queries")
	return cmd
}

// runFor maps a parsed form back to the command that executes it.
func (a *app) runFor(ctx context.Context, form query.Form, page uint64) (queryRun, error) {
	switch f := form.(type) {
	case query.BalanceForm:
		return a.balanceRun(f), nil
	case query.Erc20BalanceForm:
		return a.erc20BalanceRun(f), nil
	case query.WalletTransfersForm:
		f.Page = page
		return a.walletRun(f), nil
	case query.TokenTransfersForm:
		f.Page = page
		return a.tokenRun(f), nil
	case query.LogsForm:
		return a.logsRun(f), nil
	case query.TraceForm:
		f.Page = page
		chunk, err := a.traceChunk(ctx, 0)
		if err != nil {
			return queryRun{}, err
		}
		return a.traceRun(f, chunk), nil
	case query.BlockForm:
		return a.blockRun(f), nil
	case query.BlockRangeForm:
		return a.blockRangeRun(f), nil
	case query.TxForm:
		return a.txRun(f), nil
	default:
		return queryRun{}, fmt.Errorf("cannot rerun %s queries", form.Kind())
	}
}
