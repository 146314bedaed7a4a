package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/config"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/env"
	"github.com/dmagro/eth-indexer-explorer/internal/history"
	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	"github.com/dmagro/eth-indexer-explorer/internal/metrics"
	"github.com/dmagro/eth-indexer-explorer/internal/reports"
	"github.com/dmagro/eth-indexer-explorer/internal/store"
)

const reportsDir = reports.DefaultDir

type globalOptions struct {
	configPath string
	format     string
	debug      bool
	raw        bool
	jsonReport bool
	verbose    bool
}

// app holds everything a command needs. It is populated by setup, which runs
// before any subcommand.
type app struct {
	opts globalOptions

	out    io.Writer
	errOut io.Writer
	now    func() time.Time

	cfg      *config.Config
	format   display.OutputFormat
	log      *logger.Logger
	metrics  *metrics.Metrics
	client   *api.Client
	store    store.Store
	ledger   *history.Ledger
	settings *history.Settings
}

func newApp(out, errOut io.Writer) *app {
	return &app{
		out:    out,
		errOut: errOut,
		now:    time.Now,
		log:    logger.NewNopLogger(),
	}
}

func (a *app) setup(cmd *cobra.Command) error {
	if err := env.Load(); err != nil {
		return fmt.Errorf("load %s: %w", env.DefaultFile, err)
	}

	var (
		cfg *config.Config
		err error
	)
	if cmd.Flags().Changed("config") {
		cfg, err = config.Load(a.opts.configPath)
	} else {
		cfg, err = config.LoadOrDefault(a.opts.configPath)
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	a.cfg = cfg

	if a.format, err = display.ParseOutputFormat(a.opts.format); err != nil {
		return err
	}
	if a.format == display.FormatJSON || !display.IsTerminal() {
		display.DisableColors()
	}

	level := cfg.Logging.Level
	if a.opts.verbose {
		level = "debug"
	}
	log, err := logger.NewLogger(level, cfg.Logging.Development)
	if err != nil {
		return fmt.Errorf("failed to create logger: %w", err)
	}
	logger.SetDefaultLogger(log)
	a.log = log.WithComponent("cli")

	a.metrics = metrics.New()
	if a.client, err = api.NewClient(cfg.API.BaseURL, cfg.API.Timeout, log, a.metrics); err != nil {
		return err
	}

	if a.store, err = store.Open(cfg.Storage, log); err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	a.ledger = history.NewLedger(a.store, log)
	a.settings = history.NewSettings(a.store, log)

	a.log.Debugw("explorer ready", "api", a.client.BaseURL(), "storage", cfg.Storage.Driver, "path", cfg.Storage.Path)
	return nil
}

func (a *app) close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warnw("failed to close storage", "error", err)
		}
	}
	_ = a.log.Close()
}

// render writes f to stdout.
func (a *app) render(f display.Formatter) error {
	return f.Format(a.out)
}

// notify writes f to stderr, where failures and notes go.
func (a *app) notify(f display.Formatter) {
	if err := f.Format(a.errOut); err != nil {
		a.log.Warnw("failed to render message", "error", err)
	}
}
