package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func settingsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change stored preferences",
	}

	chunk := &cobra.Command{
		Use:   "chunk-size",
		Short: "Trace page size in blocks",
		Long: `Show, set or reset the stored trace chunk size. The stored value overrides
query.trace_chunk_size from the config.

Examples:
  explorer settings chunk-size
  explorer settings chunk-size set 10000
  explorer settings chunk-size reset`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.showChunkSize(cmd)
		},
	}

	chunk.AddCommand(
		&cobra.Command{
			Use:   "show",
			Short: "Print the effective trace chunk size",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.showChunkSize(cmd)
			},
		},
		&cobra.Command{
			Use:   "set <blocks>",
			Short: "Store a trace chunk size",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				n, err := a.settings.SetTraceChunkSize(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Trace chunk size set to %d blocks.\n", n)
				return nil
			},
		},
		&cobra.Command{
			Use:   "reset",
			Short: "Return to the configured default",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				if err := a.settings.ResetTraceChunkSize(cmd.Context()); err != nil {
					return err
				}
				fmt.Fprintf(a.out, "Trace chunk size reset to the default (%d blocks).\n", a.cfg.Query.TraceChunkSize)
				return nil
			},
		},
	)

	cmd.AddCommand(chunk)
	return cmd
}

func (a *app) showChunkSize(cmd *cobra.Command) error {
	size, overridden, err := a.settings.TraceChunkSize(cmd.Context(), a.cfg.Query.TraceChunkSize)
	if err != nil {
		return err
	}
	source := "config default"
	if overridden {
		source = "stored setting"
	}
	fmt.Fprintf(a.out, "Trace chunk size: %d blocks (%s)\n", size, source)
	return nil
}
