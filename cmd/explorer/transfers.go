package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
)

func walletCmd(a *app) *cobra.Command {
	var form query.WalletTransfersForm

	cmd := &cobra.Command{
		Use:   "wallet <address>",
		Short: "ERC-20 transfers into or out of a wallet",
		Long: `List ERC-20 transfers touching a wallet, one block window at a time.

Page P covers [from + P*chunk, from + (P+1)*chunk).

Examples:
  explorer erc20 wallet 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --from 18000000
  explorer erc20 wallet 0xd8dA6BF26964aF9D7eEd9e03E53415D37aA96045 --from 18000000 --page 2
  explorer erc20 wallet 0xd8dA... --from 18000000 --token 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Address = args[0]
			return a.runQuery(cmd.Context(), a.walletRun(form))
		},
	}

	cmd.Flags().StringVar(&form.FromBlock, "from", "", "First block of page 0 (required)")
	cmd.Flags().StringVar(&form.ChunkSize, "chunk", "", "Blocks per page (defaults to config)")
	cmd.Flags().StringSliceVar(&form.Tokens, "token", nil, "Restrict to these token contracts (repeatable)")
	cmd.Flags().Uint64Var(&form.Page, "page", 0, "Page index")
	return cmd
}

func (a *app) walletRun(form query.WalletTransfersForm) queryRun {
	chunk := a.cfg.Query.TransferChunkSize
	return queryRun{
		form:      form,
		addresses: append([]string{form.Address}, form.Tokens...),
		window: func() error {
			_, err := form.Range(chunk)
			return err
		},
		call: func(ctx context.Context) (*api.Response, error) {
			q, err := form.Query(chunk)
			if err != nil {
				return nil, err
			}
			return a.client.GetErc20WalletTransfers(ctx, form.Address, q)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			r, _ := form.Range(chunk)
			return transfersCard(resp, r)
		},
	}
}

func tokenCmd(a *app) *cobra.Command {
	var form query.TokenTransfersForm

	cmd := &cobra.Command{
		Use:   "token <address>",
		Short: "Every transfer emitted by a token contract",
		Long: `List the transfers emitted by an ERC-20 contract, one block window at a time.

Example:
  explorer erc20 token 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48 --from 18000000 --chunk 1000`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form.Address = args[0]
			return a.runQuery(cmd.Context(), a.tokenRun(form))
		},
	}

	cmd.Flags().StringVar(&form.FromBlock, "from", "", "First block of page 0 (required)")
	cmd.Flags().StringVar(&form.ChunkSize, "chunk", "", "Blocks per page (defaults to config)")
	cmd.Flags().Uint64Var(&form.Page, "page", 0, "Page index")
	return cmd
}

func (a *app) tokenRun(form query.TokenTransfersForm) queryRun {
	chunk := a.cfg.Query.TransferChunkSize
	return queryRun{
		form:      form,
		addresses: []string{form.Address},
		window: func() error {
			_, err := form.Range(chunk)
			return err
		},
		call: func(ctx context.Context) (*api.Response, error) {
			q, err := form.Query(chunk)
			if err != nil {
				return nil, err
			}
			return a.client.GetErc20TokenTransfers(ctx, form.Address, q)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			r, _ := form.Range(chunk)
			return transfersCard(resp, r)
		},
	}
}

func transfersCard(resp *api.Response, r query.Range) (display.Formatter, int, error) {
	var body api.Erc20TransfersResponse
	if err := resp.Decode(&body); err != nil {
		return nil, 0, err
	}
	return &display.TransfersTable{Transfers: body.Logs, Metadata: body.Metadata, Range: r.String()}, len(body.Logs), nil
}

func logsCmd(a *app) *cobra.Command {
	var form query.LogsForm

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Raw event logs over a block window",
		Long: `Fetch raw event logs in [from, to), optionally filtered by emitting
contract and topics.

Example:
  explorer logs --from 18000000 --to 18000100 --address 0xA0b86991c6218b36c1d19D4a2e9Eb0cE3606eB48`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd.Context(), a.logsRun(form))
		},
	}

	cmd.Flags().StringVar(&form.FromBlock, "from", "", "First block (required)")
	cmd.Flags().StringVar(&form.ToBlock, "to", "", "End block, exclusive (required)")
	cmd.Flags().StringSliceVar(&form.Addresses, "address", nil, "Emitting contract (repeatable)")
	cmd.Flags().StringSliceVar(&form.Topics, "topic", nil, "Topic filter (repeatable)")
	cmd.Flags().StringVar(&form.ChunkSize, "chunk", "", "Scan chunk size forwarded to the indexer")
	return cmd
}

func (a *app) logsRun(form query.LogsForm) queryRun {
	return queryRun{
		form:      form,
		addresses: form.Addresses,
		call: func(ctx context.Context) (*api.Response, error) {
			q, err := form.Query()
			if err != nil {
				return nil, err
			}
			return a.client.GetLogs(ctx, q)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			var body api.LogsResponse
			if err := resp.Decode(&body); err != nil {
				return nil, 0, err
			}
			return &display.LogsTable{Logs: body.Logs}, len(body.Logs), nil
		},
	}
}
