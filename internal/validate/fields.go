package validate

import (
	"sort"
	"strings"
	"time"
)

// FieldErrors maps a form field to the message shown next to it.
type FieldErrors map[string]string

func (e FieldErrors) Error() string {
	fields := e.Fields()
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return strings.Join(parts, "; ")
}

// Add records msg for field unless msg is empty or the field already has an error.
func (e FieldErrors) Add(field, msg string) {
	if msg == "" {
		return
	}
	if _, exists := e[field]; exists {
		return
	}
	e[field] = msg
}

// Fields returns the failing field names in sorted order.
func (e FieldErrors) Fields() []string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// Err returns e as an error, or nil when there is nothing to report.
func (e FieldErrors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// CheckAddress returns the message for a required address field labelled label
// (e.g. "Address", "Wallet address").
func CheckAddress(value, label string) string {
	if value == "" {
		return label + " is required"
	}
	if !IsValidAddress(value) {
		return "Invalid Ethereum address format"
	}
	return ""
}

// CheckDate returns the message for a required date field.
func CheckDate(value string, now time.Time) string {
	switch {
	case value == "":
		return "Date is required"
	case !IsValidDate(value):
		return "Invalid date format (use YYYY-MM-DD)"
	case IsFutureDate(value, now):
		return "Date cannot be in the future"
	}
	return ""
}

// CheckRequiredBlock returns the message for a required block number field
// labelled label (e.g. "From block", "Start block").
func CheckRequiredBlock(value, label string) string {
	if value == "" {
		return label + " is required"
	}
	if !IsValidBlockNumber(value) {
		return "Invalid " + strings.ToLower(label) + " number"
	}
	return ""
}

// CheckHash returns the message for a required transaction hash.
func CheckHash(value string) string {
	if value == "" {
		return "Transaction hash is required"
	}
	if !IsValidHash(value) {
		return "Invalid transaction hash format (must be 0x + 64 hex characters)"
	}
	return ""
}

// CheckBlockTag accepts "latest" or a block number.
func CheckBlockTag(value string) string {
	if value == "" {
		return "Block number is required"
	}
	if value == "latest" {
		return ""
	}
	if !IsValidBlockNumber(value) {
		return "Invalid block number"
	}
	return ""
}

// CheckBlockSpan validates a required from/to pair for a block range query.
func CheckBlockSpan(from, to string) string {
	if from == "" || to == "" {
		return "Both from and to block numbers are required"
	}
	fromN, errFrom := ParseBlockNumber(from)
	toN, errTo := ParseBlockNumber(to)
	if errFrom != nil || errTo != nil {
		if strings.HasPrefix(strings.TrimSpace(from), "-") || strings.HasPrefix(strings.TrimSpace(to), "-") {
			return "Block numbers must be >= 0"
		}
		return "Invalid block numbers"
	}
	if fromN >= toN {
		return "From block must be less than to block"
	}
	if toN-fromN > MaxBlockSpan {
		return "Range too large (max 10,000 blocks)"
	}
	return ""
}
