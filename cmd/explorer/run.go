package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/display"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
	"github.com/dmagro/eth-indexer-explorer/internal/reports"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// queryRun describes one query command.
type queryRun struct {
	form query.Form
	// addresses are checked against the strict 20-byte format; mismatches
	// only produce a note.
	addresses []string
	// window, when set, resolves the paged block window before the request.
	window func() error
	call   func(ctx context.Context) (*api.Response, error)
	// summarize decodes the response into its card and reports how many items
	// it holds, for the ledger summary.
	summarize func(resp *api.Response) (display.Formatter, int, error)
}

// runQuery validates, sends, renders and records one query. Failures are
// rendered here and returned as errReported. Only successful queries reach
// the ledger.
func (a *app) runQuery(ctx context.Context, q queryRun) error {
	if errs := q.form.Validate(a.now()); len(errs) > 0 {
		a.notify(&display.FieldErrorsBlock{Errs: errs})
		return errReported
	}
	if q.window != nil {
		if err := q.window(); errors.Is(err, query.ErrPageOutOfRange) {
			a.notify(&display.FieldErrorsBlock{Errs: validate.FieldErrors{"page": query.PageOutOfRangeMessage}})
			return errReported
		} else if err != nil {
			return err
		}
	}
	for _, addr := range q.addresses {
		if addr != "" && !validate.IsStrictAddress(addr) {
			a.log.Warnw("address is not a 20-byte hex address", "address", addr)
			a.notify(&display.LooseAddressNote{Address: addr})
		}
	}

	resp, err := q.call(ctx)
	if err != nil {
		return a.reportFailure(q.form, err)
	}

	card, count, decodeErr := q.summarize(resp)
	if decodeErr != nil {
		a.log.Warnw("unexpected response shape", "operation", resp.Operation, "error", decodeErr)
	}

	if err := a.renderResult(resp, card, decodeErr); err != nil {
		return err
	}

	if a.opts.jsonReport {
		r := reports.NewQueryReport(string(q.form.Kind()), q.form.Summary(count), q.form.Command(), resp, a.now())
		path, err := reports.WriteJSON(reportsDir, reports.Prefix(string(q.form.Kind())), r)
		if err != nil {
			a.log.Warnw("failed to write JSON report", "error", err)
		} else {
			fmt.Fprintf(a.errOut, "JSON report written to: %s\n", path)
		}
	}

	if _, err := a.ledger.Record(ctx, q.form, count); err != nil {
		a.log.Warnw("failed to record query", "error", err)
	}
	return nil
}

func (a *app) renderResult(resp *api.Response, card display.Formatter, decodeErr error) error {
	if a.format == display.FormatJSON {
		if _, err := fmt.Fprintf(a.out, "%s\n", resp.Body); err != nil {
			return err
		}
	} else {
		if decodeErr == nil && card != nil {
			if err := a.render(card); err != nil {
				return err
			}
		}
		if a.opts.raw || decodeErr != nil {
			if err := a.render(&display.RawJSON{Body: resp.Body}); err != nil {
				return err
			}
		}
	}

	if a.opts.debug {
		a.notify(&display.DebugDrawer{Response: resp})
	}
	return nil
}

func (a *app) reportFailure(form query.Form, err error) error {
	if errors.Is(err, context.Canceled) {
		return err
	}

	apiErr, ok := api.AsAPIError(err)
	if !ok {
		a.notify(&display.TransportNotice{Err: err})
		return errReported
	}

	if f, ok := form.(query.OnMissForm); ok && display.ShowsStrictMiss(apiErr, f.Mode()) {
		a.notify(&display.StrictMissGuidance{Err: apiErr, Form: f})
		return errReported
	}
	a.notify(&display.APIErrorBlock{Err: apiErr})
	return errReported
}

// decode is the common summarize step for single-object responses.
func decode[T any](resp *api.Response, card func(T) display.Formatter) (display.Formatter, int, error) {
	var v T
	if err := resp.Decode(&v); err != nil {
		return nil, 0, err
	}
	return card(v), 1, nil
}
