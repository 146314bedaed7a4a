package query

import (
	"fmt"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/format"
	"github.com/dmagro/eth-indexer-explorer/internal/validate"
)

// OnMissForm is implemented by the balance forms, whose lookups can be re-run
// under a different on-miss mode.
type OnMissForm interface {
	Form
	Mode() api.OnMiss
	WithOnMiss(mode api.OnMiss) OnMissForm
}

// BalanceForm is a native balance lookup at the end of a calendar day.
type BalanceForm struct {
	Address      string
	Date         string
	BlockRangeLo string
	BlockRangeHi string
	OnMiss       api.OnMiss
}

func (f BalanceForm) Kind() Kind { return KindBalance }

func (f BalanceForm) Validate(now time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("address", validate.CheckAddress(f.Address, "Address"))
	errs.Add("date", validate.CheckDate(f.Date, now))
	errs.Add("blockRange", validate.CheckBlockRange(f.BlockRangeLo, f.BlockRangeHi))
	errs.Add("onMiss", checkOnMiss(f.OnMiss))
	return errs
}

// Mode returns the on-miss mode, strict when unset.
func (f BalanceForm) Mode() api.OnMiss { return modeOrStrict(f.OnMiss) }

func (f BalanceForm) WithOnMiss(mode api.OnMiss) OnMissForm {
	f.OnMiss = mode
	return f
}

// Query converts a validated form into request parameters.
func (f BalanceForm) Query() (api.BalanceQuery, error) {
	return balanceQuery(f.BlockRangeLo, f.BlockRangeHi, f.Mode())
}

func (f BalanceForm) Href() string {
	return newHref("/balances").
		set("address", f.Address).
		set("date", f.Date).
		set("blockRangeLo", f.BlockRangeLo).
		set("blockRangeHi", f.BlockRangeHi).
		set("onMiss", string(f.Mode())).
		String()
}

func (f BalanceForm) Command() string {
	return newCommand("balance").
		arg(f.Address).
		arg(f.Date).
		flag("on-miss", string(f.Mode())).
		flag("lo", f.BlockRangeLo).
		flag("hi", f.BlockRangeHi).
		String()
}

func (f BalanceForm) Summary(int) string {
	return fmt.Sprintf("%s on %s", format.TruncateHash(f.Address), f.Date)
}

// Erc20BalanceForm is a token balance lookup for one owner at the end of a calendar day.
type Erc20BalanceForm struct {
	Token        string
	Owner        string
	Date         string
	BlockRangeLo string
	BlockRangeHi string
	OnMiss       api.OnMiss
}

func (f Erc20BalanceForm) Kind() Kind { return KindErc20Balance }

func (f Erc20BalanceForm) Validate(now time.Time) validate.FieldErrors {
	errs := validate.FieldErrors{}
	errs.Add("balanceTokenAddress", validate.CheckAddress(f.Token, "Token address"))
	errs.Add("balanceOwnerAddress", validate.CheckAddress(f.Owner, "Owner address"))
	errs.Add("balanceDate", validate.CheckDate(f.Date, now))
	errs.Add("balanceBlockRange", validate.CheckBlockRange(f.BlockRangeLo, f.BlockRangeHi))
	errs.Add("balanceOnMiss", checkOnMiss(f.OnMiss))
	return errs
}

func (f Erc20BalanceForm) Mode() api.OnMiss { return modeOrStrict(f.OnMiss) }

func (f Erc20BalanceForm) WithOnMiss(mode api.OnMiss) OnMissForm {
	f.OnMiss = mode
	return f
}

func (f Erc20BalanceForm) Query() (api.BalanceQuery, error) {
	return balanceQuery(f.BlockRangeLo, f.BlockRangeHi, f.Mode())
}

func (f Erc20BalanceForm) Href() string {
	return newHref("/erc20").
		set("tab", "balance").
		set("balanceTokenAddress", f.Token).
		set("balanceOwnerAddress", f.Owner).
		set("balanceDate", f.Date).
		set("balanceBlockRangeLo", f.BlockRangeLo).
		set("balanceBlockRangeHi", f.BlockRangeHi).
		set("balanceOnMiss", string(f.Mode())).
		String()
}

func (f Erc20BalanceForm) Command() string {
	return newCommand("erc20", "balance").
		arg(f.Token).
		arg(f.Owner).
		arg(f.Date).
		flag("on-miss", string(f.Mode())).
		flag("lo", f.BlockRangeLo).
		flag("hi", f.BlockRangeHi).
		String()
}

func (f Erc20BalanceForm) Summary(int) string {
	token, owner := "token", "address"
	if f.Token != "" {
		token = format.TruncateHash(f.Token)
	}
	if f.Owner != "" {
		owner = format.TruncateHash(f.Owner)
	}
	return fmt.Sprintf("%s for %s on %s", token, owner, f.Date)
}

// modeOrStrict normalizes m; an unset mode is strict and an unknown one is kept
// as typed so validation can report it.
func modeOrStrict(m api.OnMiss) api.OnMiss {
	if parsed, err := api.ParseOnMiss(string(m)); err == nil {
		return parsed
	}
	return m
}

func checkOnMiss(m api.OnMiss) string {
	if _, err := api.ParseOnMiss(string(m)); err != nil {
		return "On-miss mode must be strict, clamp or auto_widen"
	}
	return ""
}

func balanceQuery(lo, hi string, mode api.OnMiss) (api.BalanceQuery, error) {
	loN, err := parseOptionalBlock(lo)
	if err != nil {
		return api.BalanceQuery{}, fmt.Errorf("block range lo: %w", err)
	}
	hiN, err := parseOptionalBlock(hi)
	if err != nil {
		return api.BalanceQuery{}, fmt.Errorf("block range hi: %w", err)
	}
	return api.BalanceQuery{OnMiss: mode, BlockRangeLo: loN, BlockRangeHi: hiN}, nil
}
