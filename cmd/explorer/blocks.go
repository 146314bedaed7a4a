package main

import (
	"context"
	"encoding/json"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
)

func blockCmd(a *app) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "block [number|latest]",
		Short: "Fetch a block by number",
		Long: `Fetch one block by decimal or hex number. Without an argument the latest block is fetched.

Examples:
  explorer block
  explorer block 18000000 --full
  explorer block 0x112a880`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := query.BlockForm{Full: full}
			if len(args) == 1 {
				form.Number = args[0]
			}
			return a.runQuery(cmd.Context(), a.blockRun(form))
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include full transaction objects")
	cmd.AddCommand(blockRangeCmd(a))
	return cmd
}

func (a *app) blockRun(form query.BlockForm) queryRun {
	return queryRun{
		form: form,
		call: func(ctx context.Context) (*api.Response, error) {
			return a.client.GetBlockByNumber(ctx, form.Tag(), form.Full)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			return decode(resp, func(b api.Block) display.Formatter {
				return &display.BlockCard{Block: b, Now: a.now()}
			})
		},
	}
}

func blockRangeCmd(a *app) *cobra.Command {
	var full bool

	cmd := &cobra.Command{
		Use:   "range <from> <to>",
		Short: "Fetch the blocks in [from, to)",
		Long: `Fetch every block in [from, to). At most 10,000 blocks per query.

Example:
  explorer block range 18000000 18000010`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			form := query.BlockRangeForm{From: args[0], To: args[1], Full: full}
			return a.runQuery(cmd.Context(), a.blockRangeRun(form))
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "Include full transaction objects")
	return cmd
}

func (a *app) blockRangeRun(form query.BlockRangeForm) queryRun {
	return queryRun{
		form: form,
		call: func(ctx context.Context) (*api.Response, error) {
			from, to, err := form.Bounds()
			if err != nil {
				return nil, err
			}
			return a.client.GetBlockRange(ctx, from, to, form.Full)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			blocks, err := decodeBlocks(resp)
			if err != nil {
				return nil, 0, err
			}
			return &display.BlockRangeTable{Blocks: blocks, Now: a.now()}, len(blocks), nil
		},
	}
}

// decodeBlocks accepts either an array of blocks or a single block object.
func decodeBlocks(resp *api.Response) ([]api.Block, error) {
	var blocks []api.Block
	if err := json.Unmarshal(resp.Body, &blocks); err == nil {
		return blocks, nil
	}
	var one api.Block
	if err := resp.Decode(&one); err != nil {
		return nil, err
	}
	return []api.Block{one}, nil
}

func txCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tx <hash>",
		Short: "Fetch a transaction by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd.Context(), a.txRun(query.TxForm{Hash: args[0]}))
		},
	}
}

func receiptCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "receipt <hash>",
		Short: "Fetch a transaction receipt by hash",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runQuery(cmd.Context(), a.txRun(query.TxForm{Hash: args[0], Receipt: true}))
		},
	}
}

func (a *app) txRun(form query.TxForm) queryRun {
	if form.Receipt {
		return queryRun{
			form: form,
			call: func(ctx context.Context) (*api.Response, error) {
				return a.client.GetTransactionReceipt(ctx, form.Hash)
			},
			summarize: func(resp *api.Response) (display.Formatter, int, error) {
				return decode(resp, func(r api.TransactionReceipt) display.Formatter {
					return &display.ReceiptCard{Receipt: r}
				})
			},
		}
	}
	return queryRun{
		form: form,
		call: func(ctx context.Context) (*api.Response, error) {
			return a.client.GetTransactionByHash(ctx, form.Hash)
		},
		summarize: func(resp *api.Response) (display.Formatter, int, error) {
			return decode(resp, func(tx api.TransactionResponse) display.Formatter {
				return &display.TxCard{Tx: tx}
			})
		},
	}
}
