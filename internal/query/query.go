// Package query turns user input into validated indexer requests.
//
// Each Form holds the raw strings a user typed, validates them without
// touching the network, and can render itself two ways: as an href (the
// shareable link stored in the recent-queries ledger) and as the explorer
// command line that re-runs it. ParseHref reverses Href.
package query

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// Kind is the ledger label of a query.
type Kind string

const (
	KindBalance      Kind = "Balance"
	KindErc20Balance Kind = "ERC-20 Balance"
	KindErc20Wallet  Kind = "ERC-20 Wallet"
	KindErc20Token   Kind = "ERC-20 Token"
	KindLogs         Kind = "Logs"
	KindTrace        Kind = "Trace Filter"
	KindBlock        Kind = "Single Block"
	KindBlockRange   Kind = "Block Range"
	KindTransaction  Kind = "Transaction"
	KindReceipt      Kind = "Receipt"
)

// Program is the command name used when rendering re-run commands.
const Program = "explorer"

type Form interface {
	Kind() Kind
	// Validate checks the raw input. It never performs I/O.
	Validate(now time.Time) validate.FieldErrors
	// Href is the link recorded in the ledger; ParseHref(f.Href()) yields an equivalent form.
	Href() string
	// Command is the explorer invocation that repeats the query.
	Command() string
	// Summary is the one-line ledger description; results is the number of
	// items returned and is ignored by forms that return a single object.
	Summary(results int) string
}

// Range is the half-open block interval [Start, End).
type Range struct {
	Start uint64
	End   uint64
}

func (r Range) String() string {
	return fmt.Sprintf("[%d, %d)", r.Start, r.End)
}

// ErrPageOutOfRange is returned when a page window does not fit in a uint64 block number.
var ErrPageOutOfRange = errors.New("page is beyond the last addressable block")

// PageOutOfRangeMessage is the field error shown for ErrPageOutOfRange.
const PageOutOfRangeMessage = "Page is beyond the last addressable block"

// PageRange returns the page'th chunk after base: [base+page*chunk, base+(page+1)*chunk).
// A zero chunk is treated as 1. Pages past the chain head are not rejected; the
// indexer answers them with an empty result. A window whose end would overflow
// uint64 yields ErrPageOutOfRange.
func PageRange(base, page, chunk uint64) (Range, error) {
	if chunk < 1 {
		chunk = 1
	}
	if page > (math.MaxUint64-base)/chunk {
		return Range{}, fmt.Errorf("%w: page %d of %d blocks from %d", ErrPageOutOfRange, page, chunk, base)
	}
	start := base + page*chunk
	if start > math.MaxUint64-chunk {
		return Range{}, fmt.Errorf("%w: page %d of %d blocks from %d", ErrPageOutOfRange, page, chunk, base)
	}
	return Range{Start: start, End: start + chunk}, nil
}

// NormalizeBlockTag canonicalizes a block argument: blank becomes "latest",
// hex quantities become decimal, and anything else is trimmed and lower-cased.
func NormalizeBlockTag(arg string) string {
	arg = strings.ToLower(strings.TrimSpace(arg))
	if arg == "" {
		return "latest"
	}
	if strings.HasPrefix(arg, "0x") {
		n, err := strconv.ParseUint(arg[2:], 16, 64)
		if err != nil {
			return arg
		}
		return strconv.FormatUint(n, 10)
	}
	return arg
}

// hrefBuilder renders path?k=v&... keeping insertion order and skipping empty values.
type hrefBuilder struct {
	path  string
	pairs []string
}

func newHref(path string) *hrefBuilder {
	return &hrefBuilder{path: path}
}

func (h *hrefBuilder) set(key, value string) *hrefBuilder {
	if value == "" {
		return h
	}
	h.pairs = append(h.pairs, key+"="+url.QueryEscape(value))
	return h
}

func (h *hrefBuilder) String() string {
	if len(h.pairs) == 0 {
		return h.path
	}
	return h.path + "?" + strings.Join(h.pairs, "&")
}

// commandBuilder renders an explorer command line, quoting nothing because
// every argument is an address, hash, date or number.
type commandBuilder struct {
	parts []string
}

func newCommand(args ...string) *commandBuilder {
	return &commandBuilder{parts: append([]string{Program}, args...)}
}

func (c *commandBuilder) arg(v string) *commandBuilder {
	if v != "" {
		c.parts = append(c.parts, v)
	}
	return c
}

func (c *commandBuilder) flag(name, value string) *commandBuilder {
	if value != "" {
		c.parts = append(c.parts, "--"+name, value)
	}
	return c
}

func (c *commandBuilder) page(p uint64) *commandBuilder {
	if p > 0 {
		c.parts = append(c.parts, "--page", strconv.FormatUint(p, 10))
	}
	return c
}

func (c *commandBuilder) boolFlag(name string, on bool) *commandBuilder {
	if on {
		c.parts = append(c.parts, "--"+name)
	}
	return c
}

func (c *commandBuilder) String() string {
	return strings.Join(c.parts, " ")
}

func parseOptionalBlock(s string) (*uint64, error) {
	if s == "" {
		return nil, nil
	}
	n, err := validate.ParseBlockNumber(s)
	if err != nil {
		return nil, err
	}
	return &n, nil
}

// parseChunk resolves a user-supplied chunk size, falling back to def when blank.
func parseChunk(s string, def uint64) (uint64, error) {
	if strings.TrimSpace(s) == "" {
		return def, nil
	}
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid chunk size %q", s)
	}
	return n, nil
}

func checkChunk(s string) string {
	if _, err := parseChunk(s, 1); err != nil {
		return "Invalid chunk size"
	}
	return ""
}
