// Package format renders indexer values (wei amounts, hex quantities, hashes,
// timestamps) as short human-readable strings. It has no color or terminal
// dependencies; internal/display layers styling on top.
package format

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"time"
)

var weiPerEth = new(big.Float).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil))

// ParseHexUint64 parses a 0x-prefixed quantity. An empty quantity is zero.
func ParseHexUint64(hex string) (uint64, error) {
	v, err := ParseHexBigInt(hex)
	if err != nil {
		return 0, err
	}
	if !v.IsUint64() {
		return 0, fmt.Errorf("invalid hex: %s", hex)
	}
	return v.Uint64(), nil
}

// ParseHexBigInt parses a 0x-prefixed quantity of arbitrary size.
func ParseHexBigInt(hex string) (*big.Int, error) {
	digits := strings.TrimPrefix(strings.TrimPrefix(hex, "0x"), "0X")
	if digits == "" {
		return big.NewInt(0), nil
	}
	v, ok := new(big.Int).SetString(digits, 16)
	if !ok || v.Sign() < 0 {
		return nil, fmt.Errorf("invalid hex: %s", hex)
	}
	return v, nil
}

// ParseQuantity accepts either a decimal string or a 0x-prefixed hex string.
// The indexer returns both shapes depending on the endpoint.
func ParseQuantity(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		return ParseHexBigInt(s)
	}
	v, ok := new(big.Int).SetString(s, 10)
	if !ok {
		return nil, fmt.Errorf("invalid quantity: %q", s)
	}
	return v, nil
}

// FormatNumber inserts thousands separators: 18060000 -> "18,060,000".
func FormatNumber(n uint64) string {
	s := strconv.FormatUint(n, 10)
	if len(s) <= 3 {
		return s
	}

	var b strings.Builder
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(c)
	}
	return b.String()
}

// FormatEth applies the explorer's rounding: 2 decimals from 1000 ETH up,
// 4 from 1, 6 from 0.001 and 8 below that. Zero renders as "0".
func FormatEth(eth float64) string {
	switch {
	case eth == 0:
		return "0"
	case eth >= 1000:
		return strconv.FormatFloat(eth, 'f', 2, 64)
	case eth >= 1:
		return strconv.FormatFloat(eth, 'f', 4, 64)
	case eth >= 0.001:
		return strconv.FormatFloat(eth, 'f', 6, 64)
	default:
		return strconv.FormatFloat(eth, 'f', 8, 64)
	}
}

// FormatWei converts a decimal or hex wei amount to ETH and formats it with FormatEth.
// Unparseable input renders as "0".
func FormatWei(wei string) string {
	v, err := ParseQuantity(wei)
	if err != nil {
		return "0"
	}
	eth, _ := new(big.Float).Quo(new(big.Float).SetInt(v), weiPerEth).Float64()
	return FormatEth(eth)
}

// FormatGwei renders a wei amount in gwei with two decimals. A nil amount
// (pre-London blocks have no base fee) renders as a dash.
func FormatGwei(wei *big.Int) string {
	if wei == nil {
		return "-"
	}
	gwei, _ := new(big.Float).Quo(new(big.Float).SetInt(wei), big.NewFloat(1e9)).Float64()
	return fmt.Sprintf("%.2f gwei", gwei)
}

// TruncateHash shortens a hash or address to its first 8 and last 6 characters.
func TruncateHash(hash string) string {
	if len(hash) <= 14 {
		return hash
	}
	return hash[:8] + "..." + hash[len(hash)-6:]
}

// FormatTimestamp renders a unix timestamp as UTC with a relative age measured from now.
func FormatTimestamp(ts uint64, now time.Time) string {
	t := time.Unix(int64(ts), 0)
	ago := now.Sub(t)

	var agoStr string
	switch {
	case ago < 0:
		agoStr = "in the future"
	case ago < time.Minute:
		agoStr = fmt.Sprintf("%ds ago", int(ago.Seconds()))
	case ago < time.Hour:
		agoStr = fmt.Sprintf("%dm ago", int(ago.Minutes()))
	case ago < 24*time.Hour:
		agoStr = fmt.Sprintf("%dh ago", int(ago.Hours()))
	default:
		agoStr = fmt.Sprintf("%dd ago", int(ago.Hours()/24))
	}

	return fmt.Sprintf("%s (%s)", t.UTC().Format("2006-01-02 15:04:05 UTC"), agoStr)
}

// FormatBytes renders a byte count the way the debug drawer reports response sizes.
func FormatBytes(n int) string {
	switch {
	case n < 1024:
		return fmt.Sprintf("%d B", n)
	case n < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(n)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
	}
}
