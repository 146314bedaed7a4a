package display

import (
	"fmt"
	"io"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// APIErrorBlock renders an HTTP or parse failure returned by the indexer.
type APIErrorBlock struct {
	Err *api.APIError
}

// ShowsStrictMiss reports whether err is the 404 a strict-mode balance lookup
// returns when no block matches the date.
func ShowsStrictMiss(err *api.APIError, mode api.OnMiss) bool {
	return err != nil && err.IsNotFound() && mode == api.OnMissStrict
}

func (f *APIErrorBlock) Format(w io.Writer) error {
	fmt.Fprintf(w, "%s %s\n", Red(Bold(fmt.Sprintf("Error %d:", f.Err.Status))), f.Err.Error())
	return nil
}

// StrictMissGuidance is shown when a strict-mode balance lookup finds no block
// for the date. It offers the two relaxed modes as ready-to-run commands.
type StrictMissGuidance struct {
	Err  *api.APIError
	Form query.OnMissForm
}

func (f *StrictMissGuidance) Format(w io.Writer) error {
	fmt.Fprintf(w, "%s %s\n\n", Yellow(Bold("No block found for this date in strict mode.")), Dim(f.Err.Error()))
	fmt.Fprintln(w, "Strict mode requires an exact block match. Try one of these:")
	fmt.Fprintf(w, "  %s  use the nearest block inside the search bounds\n", Bold("Switch to Clamp Mode:"))
	fmt.Fprintf(w, "    %s\n", Cyan(f.Form.WithOnMiss(api.OnMissClamp).Command()))
	fmt.Fprintf(w, "  %s  widen the search window until a block is found\n", Bold("Switch to Auto Widen:"))
	fmt.Fprintf(w, "    %s\n", Cyan(f.Form.WithOnMiss(api.OnMissAutoWiden).Command()))
	fmt.Fprintln(w)
	return nil
}

// FieldErrorsBlock lists validation failures, one per field.
type FieldErrorsBlock struct {
	Errs validate.FieldErrors
}

func (f *FieldErrorsBlock) Format(w io.Writer) error {
	fmt.Fprintln(w, Red(Bold("Invalid input:")))
	for _, name := range f.Errs.Fields() {
		fmt.Fprintf(w, "  %s %s: %s\n", Red("✗"), name, f.Errs[name])
	}
	return nil
}

// TransportNotice reports a request that never produced an HTTP response.
type TransportNotice struct {
	Err error
}

func (f *TransportNotice) Format(w io.Writer) error {
	fmt.Fprintf(w, "%s %v\n", Red("Request failed:"), f.Err)
	fmt.Fprintln(w, Dim("Check that the indexer is running and the API base URL is correct."))
	return nil
}

// LooseAddressNote flags an address that passed validation but is not a
// 20-byte hex address.
type LooseAddressNote struct {
	Address string
}

func (f *LooseAddressNote) Format(w io.Writer) error {
	fmt.Fprintln(w, Dim(fmt.Sprintf("note: %s is not a 20-byte hex address; sending it as typed", f.Address)))
	return nil
}
