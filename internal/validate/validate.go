// Package validate holds the client-side input checks run before any request is sent.
//
// The predicates mirror what the indexer accepts: addresses are checked
// loosely (prefix and length only) and IsStrictAddress exists so callers can
// warn about inputs that are not real 20-byte addresses without rejecting them.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

const (
	minAddressLen = 42
	maxAddressLen = 50

	// MaxBlockSpan is the widest block range a range query may cover.
	MaxBlockSpan = 10000

	dateLayout = "2006-01-02"
)

var (
	hashPattern = regexp.MustCompile(`^0x[a-fA-F0-9]{64}$`)
	datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// IsValidAddress reports whether s starts with 0x and is between 42 and 50 characters long.
func IsValidAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && len(s) >= minAddressLen && len(s) <= maxAddressLen
}

// IsStrictAddress reports whether s is exactly 0x followed by 40 hex digits.
func IsStrictAddress(s string) bool {
	return strings.HasPrefix(s, "0x") && common.IsHexAddress(s)
}

// IsValidHash reports whether s is 0x followed by 64 hex digits.
func IsValidHash(s string) bool {
	return hashPattern.MatchString(s)
}

// IsValidDate reports whether s is a YYYY-MM-DD calendar date.
func IsValidDate(s string) bool {
	if !datePattern.MatchString(s) {
		return false
	}
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// IsFutureDate reports whether the date s (midnight UTC) lies after now.
// Invalid dates are never in the future.
func IsFutureDate(s string, now time.Time) bool {
	d, err := time.Parse(dateLayout, s)
	if err != nil {
		return false
	}
	return d.After(now)
}

// IsValidBlockNumber reports whether s is a non-negative decimal integer.
func IsValidBlockNumber(s string) bool {
	_, err := ParseBlockNumber(s)
	return err == nil
}

// ParseBlockNumber parses s as a non-negative decimal block number.
func ParseBlockNumber(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 10, 64)
}

// CheckBlockRange validates an optional lo/hi pair used to bound a balance lookup.
// Either side may be empty. It returns "" when the pair is acceptable.
func CheckBlockRange(lo, hi string) string {
	var loN, hiN uint64
	var err error
	if lo != "" {
		if loN, err = ParseBlockNumber(lo); err != nil {
			return "Invalid low block number"
		}
	}
	if hi != "" {
		if hiN, err = ParseBlockNumber(hi); err != nil {
			return "Invalid high block number"
		}
	}
	if lo != "" && hi != "" && loN >= hiN {
		return "Low block must be less than high block"
	}
	return ""
}
