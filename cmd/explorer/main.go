// Command explorer queries an Ethereum indexer's REST API from the terminal.
//
// Every query command validates its input locally, issues a single GET to the
// indexer, renders a summary card (or the raw body with --format json) and
// records the query in the recent-queries ledger so it can be re-run later.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
)

const version = "1.0.0"

// errReported marks a failure that was already rendered for the user, so
// main only sets the exit status.
var errReported = errors.New("reported")

func main() {
	os.Exit(run())
}

func run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a := newApp(os.Stdout, os.Stderr)
	defer a.close()

	if err := newRootCmd(a).ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}
