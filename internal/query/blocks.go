package query

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/format"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// BlockForm fetches one block by height or "latest".
type BlockForm struct {
	Number string
	Full   bool
}

func (f BlockForm) Kind() Kind { return KindBlock }

func (f BlockForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("single", validate.CheckBlockTag(f.Tag()))
	return errs
}

// Tag is the normalized block argument sent to the indexer.
func (f BlockForm) Tag() string { return NormalizeBlockTag(f.Number) }

func (f BlockForm) Href() string {
	return newHref("/blocks").set("block", f.Tag()).set("full", boolParam(f.Full)).String()
}

func (f BlockForm) Command() string {
	return newCommand("block").arg(f.Tag()).boolFlag("full", f.Full).String()
}

func (f BlockForm) Summary(int) string {
	return "Block " + f.Tag() + fullSuffix(f.Full)
}

// BlockRangeForm fetches the blocks in [From, To), at most validate.MaxBlockSpan of them.
type BlockRangeForm struct {
	From string
	To   string
	Full bool
}

func (f BlockRangeForm) Kind() Kind { return KindBlockRange }

func (f BlockRangeForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("range", validate.CheckBlockSpan(f.From, f.To))
	return errs
}

// Bounds returns the parsed range; call only after Validate succeeded.
func (f BlockRangeForm) Bounds() (uint64, uint64, error) {
	from, err := validate.ParseBlockNumber(f.From)
	if err != nil {
		return 0, 0, fmt.Errorf("from block: %w", err)
	}
	to, err := validate.ParseBlockNumber(f.To)
	if err != nil {
		return 0, 0, fmt.Errorf("to block: %w", err)
	}
	return from, to, nil
}

func (f BlockRangeForm) Href() string {
	return newHref("/blocks").set("from", f.From).set("to", f.To).set("full", boolParam(f.Full)).String()
}

func (f BlockRangeForm) Command() string {
	return newCommand("block", "range").arg(f.From).arg(f.To).boolFlag("full", f.Full).String()
}

func (f BlockRangeForm) Summary(int) string {
	return fmt.Sprintf("Blocks %s-%s%s", f.From, f.To, fullSuffix(f.Full))
}

// TxForm looks up a transaction, or its receipt when Receipt is set.
type TxForm struct {
	Hash    string
	Receipt bool
}

func (f TxForm) Kind() Kind {
	if f.Receipt {
		return KindReceipt
	}
	return KindTransaction
}

func (f TxForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("hash", validate.CheckHash(f.Hash))
	return errs
}

func (f TxForm) Href() string {
	if f.Receipt {
		return newHref("/transactions").set("receiptHash", f.Hash).String()
	}
	return newHref("/transactions").set("txHash", f.Hash).String()
}

func (f TxForm) Command() string {
	if f.Receipt {
		return newCommand("receipt").arg(f.Hash).String()
	}
	return newCommand("tx").arg(f.Hash).String()
}

func (f TxForm) Summary(int) string {
	if f.Receipt {
		return "Receipt " + format.TruncateHash(f.Hash)
	}
	return "Tx " + format.TruncateHash(f.Hash)
}

// TraceForm pages through trace_filter results. An empty Address queries all addresses.
type TraceForm struct {
	Address    string
	StartBlock string
	Page       uint64
}

func (f TraceForm) Kind() Kind { return KindTrace }

func (f TraceForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	if f.Address != "" && !validate.IsValidAddress(f.Address) {
		errs.Add("address", "Invalid Ethereum address format")
	}
	errs.Add("startblock", validate.CheckRequiredBlock(f.StartBlock, "Start block"))
	return errs
}

// Range returns the block window of the current page for the given chunk size.
func (f TraceForm) Range(chunk uint64) (Range, error) {
	base, err := validate.ParseBlockNumber(f.StartBlock)
	if err != nil {
		return Range{}, fmt.Errorf("start block: %w", err)
	}
	return PageRange(base, f.Page, chunk)
}

func (f TraceForm) Href() string {
	return newHref("/trace").set("address", f.Address).set("startblock", f.StartBlock).String()
}

func (f TraceForm) Command() string {
	return newCommand("trace").arg(f.Address).flag("start", f.StartBlock).page(f.Page).String()
}

func (f TraceForm) Summary(results int) string {
	target := "All addresses"
	if f.Address != "" {
		target = format.TruncateHash(f.Address)
	}
	return fmt.Sprintf("%s (%d traces)", target, results)
}

func fullSuffix(full bool) string {
	if full {
		return " (full txs)"
	}
	return ""
}

func boolParam(b bool) string {
	if b {
		return strconv.FormatBool(b)
	}
	return ""
}
