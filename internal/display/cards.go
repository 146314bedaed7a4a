package display

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/ethereum/go-ethereum/common"

	"github.com/dmagro/eth-indexer-explorer/internal/api"
	"github.com/dmagro/eth-indexer-explorer/internal/format"
)

// quantity renders an indexer quantity (decimal or hex) with thousands separators.
func quantity(q api.Quantity) string {
	v, err := format.ParseQuantity(q.String())
	if err != nil || !v.IsUint64() {
		return orDash(q.String())
	}
	return format.FormatNumber(v.Uint64())
}

func quantityUint(q api.Quantity) (uint64, bool) {
	v, err := format.ParseQuantity(q.String())
	if err != nil || !v.IsUint64() {
		return 0, false
	}
	return v.Uint64(), true
}

// checksum renders a strict address in EIP-55 form and anything else unchanged.
func checksum(addr string) string {
	if addr == "" {
		return "-"
	}
	if common.IsHexAddress(addr) {
		return common.HexToAddress(addr).Hex()
	}
	return addr
}

// BalanceCard summarizes a native or ERC-20 balance lookup.
type BalanceCard struct {
	Balance api.BalanceResponse
	Erc20   bool
	Mode    api.OnMiss
	Now     time.Time
}

func (f *BalanceCard) Format(w io.Writer) error {
	b := f.Balance
	if f.Erc20 {
		heading(w, "ERC-20 Balance")
		field(w, "Token", checksum(b.TokenAddress))
		field(w, "Owner", checksum(b.OwnerAddress))
	} else {
		heading(w, "Balance")
		field(w, "Address", checksum(b.Address))
	}
	field(w, "Date", b.Date)
	if b.BlockNumber != "" {
		field(w, "Block", quantity(b.BlockNumber))
	}
	ts := b.BlockTimestamp
	if ts == "" {
		ts = b.Timestamp
	}
	if n, ok := quantityUint(ts); ok && n > 0 {
		field(w, "Timestamp", format.FormatTimestamp(n, f.Now))
	}
	field(w, "Balance", orDash(b.Wei()))
	if !f.Erc20 {
		eth := b.BalanceEth
		if eth == "" {
			eth = format.FormatWei(b.Wei())
		}
		field(w, "ETH", Bold(eth))
	}
	if f.Mode != "" {
		field(w, "On miss", string(f.Mode))
	}
	fmt.Fprintln(w)
	return nil
}

// BlockCard shows one block header and, for full blocks, its transactions.
type BlockCard struct {
	Block api.Block
	Now   time.Time
}

func (f *BlockCard) Format(w io.Writer) error {
	h := f.Block.Header

	heading(w, "Block #"+quantity(h.Number))
	field(w, "Hash", h.Hash)
	field(w, "Parent", h.ParentHash)
	if ts, ok := quantityUint(h.Timestamp); ok {
		field(w, "Timestamp", format.FormatTimestamp(ts, f.Now))
	}
	field(w, "Gas", gasUsage(h.GasUsed, h.GasLimit))
	field(w, "Miner", checksum(h.Miner))
	if h.Size != "" {
		if n, ok := quantityUint(h.Size); ok {
			field(w, "Size", format.FormatBytes(int(n)))
		}
	}
	field(w, "Transactions", len(f.Block.Transactions))
	field(w, "Uncles", len(f.Block.Uncles))
	if len(f.Block.Withdrawals) > 0 {
		field(w, "Withdrawals", len(f.Block.Withdrawals))
	}
	fmt.Fprintln(w)

	var txs []api.Transaction
	for _, raw := range f.Block.Transactions {
		var tx api.Transaction
		if json.Unmarshal(raw, &tx) == nil && tx.Hash != "" {
			txs = append(txs, tx)
		}
	}
	if len(txs) == 0 {
		return nil
	}

	tbl := newTable(w, "Hash", "From", "To", "Value (ETH)")
	for _, tx := range txs {
		tbl.AddRow(format.TruncateHash(tx.Hash), format.TruncateHash(tx.From), format.TruncateHash(orDash(tx.To)), format.FormatWei(tx.Value.String()))
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}

func gasUsage(used, limit api.Quantity) string {
	u, okU := quantityUint(used)
	l, okL := quantityUint(limit)
	if !okU || !okL || l == 0 {
		return fmt.Sprintf("%s / %s", orDash(used.String()), orDash(limit.String()))
	}
	return fmt.Sprintf("%s / %s (%.1f%%)", format.FormatNumber(u), format.FormatNumber(l), float64(u)/float64(l)*100)
}

// BlockRangeTable lists the blocks returned for a range query.
type BlockRangeTable struct {
	Blocks []api.Block
	Now    time.Time
}

func (f *BlockRangeTable) Format(w io.Writer) error {
	heading(w, fmt.Sprintf("Blocks (%d)", len(f.Blocks)))
	if len(f.Blocks) == 0 {
		fmt.Fprintln(w, Dim("  No blocks in range."))
		return nil
	}
	tbl := newTable(w, "Block", "Hash", "Age", "Txs", "Gas Used")
	for _, b := range f.Blocks {
		age := "-"
		if ts, ok := quantityUint(b.Header.Timestamp); ok {
			age = relative(f.Now.Sub(time.Unix(int64(ts), 0)))
		}
		tbl.AddRow(quantity(b.Header.Number), format.TruncateHash(b.Header.Hash), age, len(b.Transactions), quantity(b.Header.GasUsed))
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}

func relative(d time.Duration) string {
	switch {
	case d < 0:
		return "future"
	case d < time.Minute:
		return fmt.Sprintf("%ds ago", int(d.Seconds()))
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d.Minutes()))
	case d < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(d.Hours()))
	default:
		return fmt.Sprintf("%dd ago", int(d.Hours()/24))
	}
}

// TxCard shows a transaction.
type TxCard struct {
	Tx api.TransactionResponse
}

func (f *TxCard) Format(w io.Writer) error {
	tx := f.Tx
	heading(w, "Transaction")
	field(w, "Hash", tx.Hash)
	if tx.BlockNumber != "" {
		field(w, "Block", quantity(tx.BlockNumber))
	} else {
		field(w, "Block", Yellow("pending"))
	}
	field(w, "From", checksum(tx.From))
	to := checksum(tx.To)
	if tx.To == "" {
		to = Dim("contract creation")
	}
	field(w, "To", to)
	field(w, "Value", format.FormatWei(tx.Value.String())+" ETH")
	field(w, "Nonce", quantity(tx.Nonce))
	field(w, "Gas", quantity(tx.Gas))
	if v, err := format.ParseQuantity(tx.GasPrice.String()); err == nil && tx.GasPrice != "" {
		field(w, "Gas Price", format.FormatGwei(v))
	}
	if v, err := format.ParseQuantity(tx.MaxFeePerGas.String()); err == nil && tx.MaxFeePerGas != "" {
		field(w, "Max Fee", format.FormatGwei(v))
	}
	if tx.TransactionType != "" {
		field(w, "Type", quantity(tx.TransactionType))
	}
	field(w, "Input", inputSummary(tx.Input))
	fmt.Fprintln(w)
	return nil
}

func inputSummary(input string) string {
	if input == "" || input == "0x" {
		return Dim("none")
	}
	n := (len(input) - 2) / 2
	if len(input) > 10 {
		return fmt.Sprintf("%s (%d bytes)", input[:10], n)
	}
	return input
}

// ReceiptCard shows a transaction receipt and its logs.
type ReceiptCard struct {
	Receipt api.TransactionReceipt
}

func (f *ReceiptCard) Format(w io.Writer) error {
	r := f.Receipt
	heading(w, "Receipt")
	field(w, "Transaction", r.TransactionHash)
	field(w, "Block", quantity(r.BlockNumber))
	field(w, "Status", receiptStatus(r.Status))
	field(w, "Gas Used", quantity(r.GasUsed))
	field(w, "Cumulative", quantity(r.CumulativeGasUsed))
	if v, err := format.ParseQuantity(r.EffectiveGasPrice.String()); err == nil && r.EffectiveGasPrice != "" {
		field(w, "Gas Price", format.FormatGwei(v))
	}
	if r.ContractAddress != "" {
		field(w, "Contract", checksum(r.ContractAddress))
	}
	field(w, "Logs", len(r.Logs))
	fmt.Fprintln(w)

	if len(r.Logs) > 0 {
		return (&LogsTable{Logs: r.Logs}).Format(w)
	}
	return nil
}

func receiptStatus(q api.Quantity) string {
	n, ok := quantityUint(q)
	switch {
	case !ok:
		return orDash(q.String())
	case n == 1:
		return Green("✓ success")
	default:
		return Red("✗ reverted")
	}
}

// LogsTable lists raw event logs.
type LogsTable struct {
	Logs []api.Log
}

func (f *LogsTable) Format(w io.Writer) error {
	tbl := newTable(w, "Block", "Index", "Address", "Topic0", "Tx")
	for _, l := range f.Logs {
		topic := "-"
		if len(l.Topics) > 0 {
			topic = format.TruncateHash(l.Topics[0])
		}
		tbl.AddRow(quantity(l.BlockNumber), orDash(l.LogIndex.String()), format.TruncateHash(l.Address), topic, format.TruncateHash(orDash(l.TransactionHash)))
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}

// TransfersTable lists one page of ERC-20 transfers.
type TransfersTable struct {
	Transfers []api.Erc20Transfer
	Metadata  api.LogsMetadata
	Range     string
}

func (f *TransfersTable) Format(w io.Writer) error {
	heading(w, fmt.Sprintf("ERC-20 Transfers (%d)", len(f.Transfers)))
	if f.Range != "" {
		field(w, "Blocks", f.Range)
	}
	if f.Metadata.ChunkSize != "" {
		field(w, "Chunk size", quantity(f.Metadata.ChunkSize))
	}
	fmt.Fprintln(w)
	if len(f.Transfers) == 0 {
		fmt.Fprintln(w, Dim("  No transfers in this block range. Try the next page."))
		return nil
	}

	tbl := newTable(w, "Block", "Token", "From", "To", "Value", "Tx")
	for _, t := range f.Transfers {
		tbl.AddRow(quantity(t.BlockNumber), format.TruncateHash(t.Token), format.TruncateHash(t.From), format.TruncateHash(t.To), orDash(t.Value.String()), format.TruncateHash(orDash(t.TransactionHash)))
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}

// TracesTable lists one page of trace_filter results.
type TracesTable struct {
	Traces []api.TraceResult
	Range  string
}

func (f *TracesTable) Format(w io.Writer) error {
	heading(w, fmt.Sprintf("Traces (%d)", len(f.Traces)))
	if f.Range != "" {
		field(w, "Blocks", f.Range)
	}
	fmt.Fprintln(w)
	if len(f.Traces) == 0 {
		fmt.Fprintln(w, Dim("  No traces in this block range. Try the next page."))
		return nil
	}

	tbl := newTable(w, "Transaction Hash", "Block", "From", "To", "Value (ETH)")
	for _, t := range f.Traces {
		action := t.CallAction()
		value := "-"
		if action.Value != "" {
			value = format.FormatWei(action.Value.String())
		}
		tbl.AddRow(format.TruncateHash(orDash(t.TxHash())), quantity(api.Quantity(t.Block())), format.TruncateHash(orDash(action.From)), format.TruncateHash(orDash(action.To)), value)
	}
	tbl.Print()
	fmt.Fprintln(w)
	return nil
}
