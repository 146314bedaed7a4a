package query

import (
	"fmt"
	"net/url"
	"strconv"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
)

// ParseHref rebuilds the form encoded in a ledger href. Page indices are not
// part of an href; the returned form always starts at page 0.
func ParseHref(href string) (Form, error) {
	u, err := url.Parse(href)
	if err != nil {
		return nil, fmt.Errorf("parse href %q: %w", href, err)
	}
	q := u.Query()

	switch u.Path {
	case "/balances":
		return BalanceForm{
			Address:      q.Get("address"),
			Date:         q.Get("date"),
			BlockRangeLo: q.Get("blockRangeLo"),
			BlockRangeHi: q.Get("blockRangeHi"),
			OnMiss:       api.OnMiss(q.Get("onMiss")),
		}, nil

	case "/erc20":
		switch tab := q.Get("tab"); tab {
		case "wallet":
			return WalletTransfersForm{
				Address:   q.Get("walletAddress"),
				FromBlock: q.Get("walletFromBlock"),
				Tokens:    splitList(q.Get("walletTokens")),
				ChunkSize: q.Get("walletChunkSize"),
			}, nil
		case "token":
			return TokenTransfersForm{
				Address:   q.Get("tokenAddress"),
				FromBlock: q.Get("tokenFromBlock"),
				ChunkSize: q.Get("tokenChunkSize"),
			}, nil
		case "balance":
			return Erc20BalanceForm{
				Token:        q.Get("balanceTokenAddress"),
				Owner:        q.Get("balanceOwnerAddress"),
				Date:         q.Get("balanceDate"),
				BlockRangeLo: q.Get("balanceBlockRangeLo"),
				BlockRangeHi: q.Get("balanceBlockRangeHi"),
				OnMiss:       api.OnMiss(q.Get("balanceOnMiss")),
			}, nil
		default:
			return nil, fmt.Errorf("unknown erc20 tab %q", tab)
		}

	case "/trace":
		return TraceForm{
			Address:    q.Get("address"),
			StartBlock: q.Get("startblock"),
		}, nil

	case "/logs":
		return LogsForm{
			FromBlock: q.Get("from"),
			ToBlock:   q.Get("to"),
			Addresses: splitList(q.Get("addresses")),
			Topics:    splitList(q.Get("topics")),
			ChunkSize: q.Get("chunkSize"),
		}, nil

	case "/blocks":
		full, _ := strconv.ParseBool(q.Get("full"))
		if q.Has("block") {
			return BlockForm{Number: q.Get("block"), Full: full}, nil
		}
		return BlockRangeForm{From: q.Get("from"), To: q.Get("to"), Full: full}, nil

	case "/transactions":
		if q.Has("receiptHash") {
			return TxForm{Hash: q.Get("receiptHash"), Receipt: true}, nil
		}
		if q.Has("txHash") {
			return TxForm{Hash: q.Get("txHash")}, nil
		}
		return nil, fmt.Errorf("href %q names no transaction", href)
	}

	return nil, fmt.Errorf("unsupported href %q", href)
}
