package api

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// OnMiss selects how the indexer resolves a balance query when no block matches the date.
type OnMiss string

const (
	OnMissStrict    OnMiss = "strict"
	OnMissClamp     OnMiss = "clamp"
	OnMissAutoWiden OnMiss = "auto_widen"
)

// OnMissModes lists the accepted modes in display order.
var OnMissModes = []OnMiss{OnMissStrict, OnMissClamp, OnMissAutoWiden}

// ParseOnMiss accepts a mode name; an empty string selects strict.
func ParseOnMiss(s string) (OnMiss, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return OnMissStrict, nil
	}
	for _, m := range OnMissModes {
		if string(m) == s {
			return m, nil
		}
	}
	return "", fmt.Errorf("unknown on-miss mode %q (expected strict, clamp or auto_widen)", s)
}

// BalanceQuery holds the optional parameters of both balance endpoints.
type BalanceQuery struct {
	OnMiss       OnMiss
	BlockRangeLo *uint64
	BlockRangeHi *uint64
}

func (q BalanceQuery) params() Params {
	return Params{}.
		AddString("on_miss", string(q.OnMiss)).
		AddOptUint("block_range_lo", q.BlockRangeLo).
		AddOptUint("block_range_hi", q.BlockRangeHi)
}

// TransferQuery bounds an ERC-20 transfer lookup to [From, To).
type TransferQuery struct {
	From      uint64
	To        uint64
	Tokens    []string
	ChunkSize *uint64
}

func (q TransferQuery) params() Params {
	return Params{}.
		AddUint("from", q.From).
		AddUint("to", q.To).
		AddStrings("tokens", q.Tokens).
		AddOptUint("chunk_size", q.ChunkSize)
}

// LogsQuery is the generic eth_getLogs style lookup.
type LogsQuery struct {
	From      uint64
	To        uint64
	Addresses []string
	Topics    []string
	ChunkSize *uint64
}

func (q LogsQuery) params() Params {
	return Params{}.
		AddUint("from", q.From).
		AddUint("to", q.To).
		AddStrings("addresses", q.Addresses).
		AddStrings("topics", q.Topics).
		AddOptUint("chunk_size", q.ChunkSize)
}

// TraceQuery bounds a trace_filter lookup.
type TraceQuery struct {
	StartBlock *uint64
	EndBlock   *uint64
}

func (q TraceQuery) params() Params {
	return Params{}.
		AddOptUint("startblock", q.StartBlock).
		AddOptUint("endblock", q.EndBlock)
}

// Response is what every client call returns on success: the request that was
// made and the untouched body for the raw viewer.
type Response struct {
	Operation string
	URL       string // full request URL
	Endpoint  string // request URL without the query string
	Params    Params
	Status    int
	Body      json.RawMessage
	Latency   time.Duration
}

// Decode unmarshals the body into v. Unknown fields are ignored.
func (r *Response) Decode(v any) error {
	if err := json.Unmarshal(r.Body, v); err != nil {
		return fmt.Errorf("decode %s response: %w", r.Operation, err)
	}
	return nil
}

func (r *Response) Size() int {
	return len(r.Body)
}

// Quantity is a numeric field the indexer sends either as a JSON number or as a
// decimal/hex string. The original text is kept.
type Quantity string

func (q *Quantity) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*q = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*q = Quantity(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*q = Quantity(n.String())
	return nil
}

func (q Quantity) String() string { return string(q) }

type BalanceResponse struct {
	TokenAddress   string   `json:"token_address,omitempty"`
	OwnerAddress   string   `json:"owner_address,omitempty"`
	Address        string   `json:"address,omitempty"`
	Date           string   `json:"date"`
	Timestamp      Quantity `json:"timestamp"`
	BlockNumber    Quantity `json:"block_number,omitempty"`
	BlockTimestamp Quantity `json:"block_timestamp,omitempty"`
	Balance        Quantity `json:"balance"`
	BalanceWei     Quantity `json:"balance_wei,omitempty"`
	BalanceEth     string   `json:"balance_eth,omitempty"`
}

// Wei returns the raw balance, preferring the current field over the legacy one.
func (b BalanceResponse) Wei() string {
	if b.Balance != "" {
		return b.Balance.String()
	}
	return b.BalanceWei.String()
}

type BlockHeader struct {
	Number          Quantity `json:"number"`
	Hash            string   `json:"hash"`
	ParentHash      string   `json:"parent_hash"`
	Timestamp       Quantity `json:"timestamp"`
	GasLimit        Quantity `json:"gas_limit"`
	GasUsed         Quantity `json:"gas_used"`
	Miner           string   `json:"miner"`
	Difficulty      Quantity `json:"difficulty"`
	TotalDifficulty Quantity `json:"total_difficulty,omitempty"`
	ExtraData       string   `json:"extra_data"`
	Size            Quantity `json:"size,omitempty"`
}

type Transaction struct {
	Hash                 string   `json:"hash"`
	Nonce                Quantity `json:"nonce"`
	From                 string   `json:"from"`
	To                   string   `json:"to,omitempty"`
	Value                Quantity `json:"value"`
	Gas                  Quantity `json:"gas"`
	GasPrice             Quantity `json:"gas_price,omitempty"`
	MaxFeePerGas         Quantity `json:"max_fee_per_gas,omitempty"`
	MaxPriorityFeePerGas Quantity `json:"max_priority_fee_per_gas,omitempty"`
	Input                string   `json:"input"`
	TransactionType      *int     `json:"transaction_type,omitempty"`
}

// Block is returned by getBlockByNumber. Transactions are hashes unless full=true;
// they are kept raw so both shapes decode.
type Block struct {
	Header       BlockHeader       `json:"header"`
	Transactions []json.RawMessage `json:"transactions"`
	Uncles       []string          `json:"uncles"`
	Withdrawals  []json.RawMessage `json:"withdrawals,omitempty"`
}

type TransactionResponse struct {
	Hash                 string   `json:"hash"`
	Nonce                Quantity `json:"nonce"`
	BlockHash            string   `json:"blockHash,omitempty"`
	BlockNumber          Quantity `json:"blockNumber,omitempty"`
	TransactionIndex     Quantity `json:"transactionIndex,omitempty"`
	From                 string   `json:"from"`
	To                   string   `json:"to,omitempty"`
	Value                Quantity `json:"value"`
	Gas                  Quantity `json:"gas"`
	GasPrice             Quantity `json:"gasPrice,omitempty"`
	MaxFeePerGas         Quantity `json:"maxFeePerGas,omitempty"`
	MaxPriorityFeePerGas Quantity `json:"maxPriorityFeePerGas,omitempty"`
	Input                string   `json:"input"`
	TransactionType      Quantity `json:"transactionType,omitempty"`
	ChainID              Quantity `json:"chainId,omitempty"`
}

type Log struct {
	Address          string   `json:"address"`
	Topics           []string `json:"topics"`
	Data             string   `json:"data"`
	TransactionHash  string   `json:"transaction_hash,omitempty"`
	BlockNumber      Quantity `json:"block_number,omitempty"`
	BlockHash        string   `json:"block_hash,omitempty"`
	LogIndex         Quantity `json:"log_index,omitempty"`
	TransactionIndex Quantity `json:"transaction_index,omitempty"`
	Removed          bool     `json:"removed,omitempty"`
}

type TransactionReceipt struct {
	BlockHash         string   `json:"blockHash"`
	BlockNumber       Quantity `json:"blockNumber"`
	ContractAddress   string   `json:"contractAddress"`
	CumulativeGasUsed Quantity `json:"cumulativeGasUsed"`
	EffectiveGasPrice Quantity `json:"effectiveGasPrice"`
	GasUsed           Quantity `json:"gasUsed"`
	Logs              []Log    `json:"logs"`
	Status            Quantity `json:"status"`
	To                string   `json:"to"`
	TransactionHash   string   `json:"transactionHash"`
	TransactionIndex  Quantity `json:"transactionIndex"`
	Type              Quantity `json:"type"`
}

type Erc20Transfer struct {
	Type            string   `json:"type"`
	From            string   `json:"from"`
	To              string   `json:"to"`
	Value           Quantity `json:"value"`
	Token           string   `json:"token"`
	TransactionHash string   `json:"transaction_hash,omitempty"`
	BlockNumber     Quantity `json:"block_number,omitempty"`
	LogIndex        Quantity `json:"log_index,omitempty"`
	Lane            string   `json:"lane,omitempty"`
}

type LogsMetadata struct {
	FromBlock    Quantity `json:"from_block"`
	ToBlock      Quantity `json:"to_block"`
	TotalLogs    int      `json:"total_logs"`
	ChunkSize    Quantity `json:"chunk_size"`
	TransferType string   `json:"transfer_type,omitempty"`
}

type Erc20TransfersResponse struct {
	Logs     []Erc20Transfer `json:"logs"`
	Metadata LogsMetadata    `json:"metadata"`
}

type LogsResponse struct {
	Logs     []Log        `json:"logs"`
	Metadata LogsMetadata `json:"metadata"`
}

// TraceResult accepts both the flat trace shape and the legacy nested one.
type TraceResult struct {
	Action              json.RawMessage `json:"action,omitempty"`
	Result              json.RawMessage `json:"result,omitempty"`
	Error               string          `json:"error,omitempty"`
	BlockHash           string          `json:"blockHash,omitempty"`
	BlockNumber         Quantity        `json:"blockNumber,omitempty"`
	TransactionHash     string          `json:"transactionHash,omitempty"`
	TransactionPosition *int            `json:"transactionPosition,omitempty"`
	Subtraces           *int            `json:"subtraces,omitempty"`
	TraceAddress        []int           `json:"traceAddress,omitempty"`
	Type                string          `json:"type,omitempty"`

	Trace *struct {
		TraceAddress []int           `json:"trace_address"`
		Subtraces    int             `json:"subtraces"`
		Action       json.RawMessage `json:"action,omitempty"`
		Result       json.RawMessage `json:"result,omitempty"`
		Error        string          `json:"error,omitempty"`
	} `json:"trace,omitempty"`
	LegacyTransactionHash string   `json:"transaction_hash,omitempty"`
	LegacyBlockNumber     Quantity `json:"block_number,omitempty"`
}

// TxHash returns the transaction hash from whichever shape was sent.
func (t TraceResult) TxHash() string {
	if t.TransactionHash != "" {
		return t.TransactionHash
	}
	return t.LegacyTransactionHash
}

// Block returns the block number from whichever shape was sent.
func (t TraceResult) Block() string {
	if t.BlockNumber != "" {
		return t.BlockNumber.String()
	}
	return t.LegacyBlockNumber.String()
}

// TraceAction is the subset of a call action shown in trace tables.
type TraceAction struct {
	From     string   `json:"from"`
	To       string   `json:"to"`
	Value    Quantity `json:"value"`
	CallType string   `json:"callType"`
}

// CallAction decodes the action from whichever shape was sent.
func (t TraceResult) CallAction() TraceAction {
	raw := t.Action
	if len(raw) == 0 && t.Trace != nil {
		raw = t.Trace.Action
	}
	var a TraceAction
	if len(raw) > 0 {
		_ = json.Unmarshal(raw, &a)
	}
	return a
}

type PingResponse struct {
	Message string `json:"message"`
}

type RPCInfoResponse struct {
	RPCURLs        []string `json:"rpc_urls"`
	ParallelPerRPC int      `json:"parallel_per_rpc"`
}
