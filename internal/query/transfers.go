package query

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/format"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// WalletTransfersForm pages through ERC-20 transfers into or out of a wallet,
// optionally restricted to a set of token contracts.
type WalletTransfersForm struct {
	Address   string
	FromBlock string
	Tokens    []string
	ChunkSize string // blank selects the configured default
	Page      uint64
}

func (f WalletTransfersForm) Kind() Kind { return KindErc20Wallet }

func (f WalletTransfersForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("walletAddress", validate.CheckAddress(f.Address, "Wallet address"))
	errs.Add("walletFromBlock", validate.CheckRequiredBlock(f.FromBlock, "From block"))
	for _, token := range f.Tokens {
		if !validate.IsValidAddress(token) {
			errs.Add("walletTokens", fmt.Sprintf("Invalid token address: %s", token))
		}
	}
	errs.Add("walletChunkSize", checkChunk(f.ChunkSize))
	errs.Add("page", checkPage(f.FromBlock, f.ChunkSize, f.Page))
	return errs
}

// Range returns the block window of the current page.
func (f WalletTransfersForm) Range(defaultChunk uint64) (Range, error) {
	return pagedRange(f.FromBlock, f.ChunkSize, f.Page, defaultChunk)
}

// Query builds the request for the current page. The wallet endpoint chooses
// its own scan chunking, so ChunkSize only sizes the page window.
func (f WalletTransfersForm) Query(defaultChunk uint64) (api.TransferQuery, error) {
	r, err := f.Range(defaultChunk)
	if err != nil {
		return api.TransferQuery{}, err
	}
	return api.TransferQuery{From: r.Start, To: r.End, Tokens: f.Tokens}, nil
}

func (f WalletTransfersForm) Href() string {
	return newHref("/erc20").
		set("tab", "wallet").
		set("walletAddress", f.Address).
		set("walletFromBlock", f.FromBlock).
		set("walletTokens", strings.Join(f.Tokens, ",")).
		set("walletChunkSize", f.ChunkSize).
		String()
}

func (f WalletTransfersForm) Command() string {
	c := newCommand("erc20", "wallet").
		arg(f.Address).
		flag("from", f.FromBlock).
		flag("chunk", f.ChunkSize)
	for _, token := range f.Tokens {
		c.flag("token", token)
	}
	return c.page(f.Page).String()
}

func (f WalletTransfersForm) Summary(results int) string {
	return fmt.Sprintf("%s (%d transfers)", format.TruncateHash(f.Address), results)
}

// TokenTransfersForm pages through every transfer emitted by one token contract.
type TokenTransfersForm struct {
	Address   string
	FromBlock string
	ChunkSize string
	Page      uint64
}

func (f TokenTransfersForm) Kind() Kind { return KindErc20Token }

func (f TokenTransfersForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("tokenAddress", validate.CheckAddress(f.Address, "Token address"))
	errs.Add("tokenFromBlock", validate.CheckRequiredBlock(f.FromBlock, "From block"))
	errs.Add("tokenChunkSize", checkChunk(f.ChunkSize))
	errs.Add("page", checkPage(f.FromBlock, f.ChunkSize, f.Page))
	return errs
}

func (f TokenTransfersForm) Range(defaultChunk uint64) (Range, error) {
	return pagedRange(f.FromBlock, f.ChunkSize, f.Page, defaultChunk)
}

// Query builds the request for the current page and forwards the chunk size.
func (f TokenTransfersForm) Query(defaultChunk uint64) (api.TransferQuery, error) {
	chunk, err := parseChunk(f.ChunkSize, defaultChunk)
	if err != nil {
		return api.TransferQuery{}, err
	}
	r, err := f.Range(defaultChunk)
	if err != nil {
		return api.TransferQuery{}, err
	}
	return api.TransferQuery{From: r.Start, To: r.End, ChunkSize: &chunk}, nil
}

func (f TokenTransfersForm) Href() string {
	return newHref("/erc20").
		set("tab", "token").
		set("tokenAddress", f.Address).
		set("tokenFromBlock", f.FromBlock).
		set("tokenChunkSize", f.ChunkSize).
		String()
}

func (f TokenTransfersForm) Command() string {
	return newCommand("erc20", "token").
		arg(f.Address).
		flag("from", f.FromBlock).
		flag("chunk", f.ChunkSize).
		page(f.Page).
		String()
}

func (f TokenTransfersForm) Summary(results int) string {
	return fmt.Sprintf("%s (%d transfers)", format.TruncateHash(f.Address), results)
}

// LogsForm is a raw log query over an explicit block window.
type LogsForm struct {
	FromBlock string
	ToBlock   string
	Addresses []string
	Topics    []string
	ChunkSize string
}

func (f LogsForm) Kind() Kind { return KindLogs }

func (f LogsForm) Validate(time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("from", validate.CheckRequiredBlock(f.FromBlock, "From block"))
	errs.Add("to", validate.CheckRequiredBlock(f.ToBlock, "To block"))
	if len(errs) == 0 {
		from, _ := validate.ParseBlockNumber(f.FromBlock)
		to, _ := validate.ParseBlockNumber(f.ToBlock)
		if from >= to {
			errs.Add("to", "From block must be less than to block")
		}
	}
	for _, a := range f.Addresses {
		if !validate.IsValidAddress(a) {
			errs.Add("addresses", "Invalid Ethereum address format")
		}
	}
	for _, topic := range f.Topics {
		if !validate.IsValidHash(topic) {
			errs.Add("topics", fmt.Sprintf("Invalid topic: %s", topic))
		}
	}
	errs.Add("chunkSize", checkChunk(f.ChunkSize))
	return errs
}

func (f LogsForm) Query() (api.LogsQuery, error) {
	from, err := validate.ParseBlockNumber(f.FromBlock)
	if err != nil {
		return api.LogsQuery{}, fmt.Errorf("from block: %w", err)
	}
	to, err := validate.ParseBlockNumber(f.ToBlock)
	if err != nil {
		return api.LogsQuery{}, fmt.Errorf("to block: %w", err)
	}
	q := api.LogsQuery{From: from, To: to, Addresses: f.Addresses, Topics: f.Topics}
	if f.ChunkSize != "" {
		chunk, err := parseChunk(f.ChunkSize, 0)
		if err != nil {
			return api.LogsQuery{}, err
		}
		q.ChunkSize = &chunk
	}
	return q, nil
}

func (f LogsForm) Href() string {
	return newHref("/logs").
		set("from", f.FromBlock).
		set("to", f.ToBlock).
		set("addresses", strings.Join(f.Addresses, ",")).
		set("topics", strings.Join(f.Topics, ",")).
		set("chunkSize", f.ChunkSize).
		String()
}

func (f LogsForm) Command() string {
	c := newCommand("logs").flag("from", f.FromBlock).flag("to", f.ToBlock)
	for _, a := range f.Addresses {
		c.flag("address", a)
	}
	for _, topic := range f.Topics {
		c.flag("topic", topic)
	}
	return c.flag("chunk", f.ChunkSize).String()
}

func (f LogsForm) Summary(results int) string {
	return fmt.Sprintf("Logs %s-%s (%d logs)", f.FromBlock, f.ToBlock, results)
}

func pagedRange(fromBlock, chunkSize string, page, defaultChunk uint64) (Range, error) {
	base, err := validate.ParseBlockNumber(fromBlock)
	if err != nil {
		return Range{}, fmt.Errorf("from block: %w", err)
	}
	chunk, err := parseChunk(chunkSize, defaultChunk)
	if err != nil {
		return Range{}, err
	}
	return PageRange(base, page, chunk)
}

// checkPage rejects a page whose window overflows. A blank chunk size is
// resolved later from config, so only an explicit one is checked here.
func checkPage(fromBlock, chunkSize string, page uint64) string {
	if strings.TrimSpace(chunkSize) == "" {
		return ""
	}
	if _, err := pagedRange(fromBlock, chunkSize, page, 1); errors.Is(err, ErrPageOutOfRange) {
		return PageOutOfRangeMessage
	}
	return ""
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
