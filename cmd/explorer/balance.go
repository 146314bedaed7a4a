package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
)

// balanceFlags are shared by the native and ERC-20 balance commands.
type balanceFlags struct {
	onMiss string
	lo     string
	hi     string
}

func (f *balanceFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.onMiss, "on-miss", string(api.OnMissStrict), "Behavior when no block matches the date: strict|clamp|auto_widen")
	cmd.Flags().StringVar(&f.lo, "lo", "", "Lower block bound for the date search")
	cmd.Flags().StringVar(&f.hi, "hi", "", "Upper block bound for the date search")
}

func balanceCmd(a *app) *cobra.Command {
	var flags balanceFlags

	cmd := &cobra.Command{
		Use:   "balance <address> <date>",
		Short: "Native ETH balance of an address at the end of a day",
		Long: `Look up the ETH balance of an address at the last block of a calendar day.

In strict mode the indexer answers 404 when no block matches the date; clamp
and auto_widen relax the search.

Examples:
  explorer balance 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 2024-09-25
  explorer balance 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 2024-09-25 --on-miss clamp`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := query.BalanceForm{
				Address:      args[0],
				Date:         args[1],
				BlockRangeLo: flags.lo,
				BlockRangeHi: flags.hi,
				OnMiss:       api.OnMiss(flags.onMiss),
			}
			return a.runQuery(cmd.Context(), a.balanceRun(form))
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) balanceRun(form query.BalanceForm) queryRun {
	return queryRun{
		form:      form,
		addresses: []string{form.Address},
		call: func(ctx context.Context) (*api.Response, error) {
			q, err := form.Query()
			if err != nil {
				return nil, err
			}
			return a.client.GetBalance(ctx, form.Address, form.Date, q)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			return decode(resp, func(b api.BalanceResponse) display.Formatter {
				return &display.BalanceCard{Balance: b, Mode: form.Mode(), Now: a.now()}
			})
		},
	}
}

func erc20Cmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "erc20",
		Short: "ERC-20 balances and transfers",
	}
	cmd.AddCommand(erc20BalanceCmd(a), walletCmd(a), tokenCmd(a))
	return cmd
}

func erc20BalanceCmd(a *app) *cobra.Command {
	var flags balanceFlags

	cmd := &cobra.Command{
		Use:   "balance <token> <owner> <date>",
		Short: "Token balance of an owner at the end of a day",
		Long: `Look up an owner's balance of an ERC-20 token at the last block of a calendar day.

Example:
  explorer erc20 balance 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 2024-09-25`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := query.Erc20BalanceForm{
				Token:        args[0],
				Owner:        args[1],
				Date:         args[2],
				BlockRangeLo: flags.lo,
				BlockRangeHi: flags.hi,
				OnMiss:       api.OnMiss(flags.onMiss),
			}
			return a.runQuery(cmd.Context(), a.erc20BalanceRun(form))
		},
	}
	flags.register(cmd)
	return cmd
}

func (a *app) erc20BalanceRun(form query.Erc20BalanceForm) queryRun {
	return queryRun{
		form:      form,
		addresses: []string{form.Token, form.Owner},
		call: func(ctx context.Context) (*api.Response, error) {
			q, err := form.Query()
			if err != nil {
				return nil, err
			}
			return a.client.GetErc20Balance(ctx, form.Token, form.Owner, form.Date, q)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			return decode(resp, func(b api.BalanceResponse) display.Formatter {
				return &display.BalanceCard{Balance: b, Erc20: true, Mode: form.Mode(), Now: a.now()}
			})
		},
	}
}
