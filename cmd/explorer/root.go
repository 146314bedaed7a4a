package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/config"
)

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "explorer",
		Short: "Query an Ethereum indexer API from the terminal",
		Long: `explorer issues queries against an Ethereum indexer REST API: balances on a
date, blocks, transactions and receipts, ERC-20 transfers, logs and traces.

Input is validated before any request is sent. Successful queries are kept in a
ledger of the 10 most recent, which "explorer recent" lists and "explorer rerun"
repeats.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	flags := root.PersistentFlags()
	flags.StringVar(&a.opts.configPath, "config", config.DefaultPath, "Config file path")
	flags.StringVar(&a.opts.format, "format", "terminal", "Output format: terminal|json")
	flags.BoolVar(&a.opts.debug, "debug", false, "Show the request URL, params, size and an equivalent curl command")
	flags.BoolVar(&a.opts.raw, "raw", false, "Show the raw JSON response after the summary")
	flags.BoolVar(&a.opts.jsonReport, "json", false, fmt.Sprintf("Also write a JSON report to %s/", reportsDir))
	flags.BoolVarP(&a.opts.verbose, "verbose", "v", false, "Log at debug level")

	root.AddCommand(
		balanceCmd(a),
		erc20Cmd(a),
		blockCmd(a),
		txCmd(a),
		receiptCmd(a),
		logsCmd(a),
		traceCmd(a),
		statusCmd(a),
		watchCmd(a),
		recentCmd(a),
		rerunCmd(a),
		settingsCmd(a),
	)
	return root
}
