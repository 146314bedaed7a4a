// Package display renders explorer output for the terminal.
//
// Commands keep parsing and request logic out of rendering by handing every
// human-readable result to a Formatter from this package. Colors come from
// fatih/color and are disabled automatically when stdout is not a terminal.
package display

import (
	"fmt"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

const ClearScreen = "\033[2J\033[H"

var (
	Green  = color.New(color.FgGreen).SprintFunc()
	Red    = color.New(color.FgRed).SprintFunc()
	Yellow = color.New(color.FgYellow).SprintFunc()
	Cyan   = color.New(color.FgCyan).SprintFunc()
	Bold   = color.New(color.Bold).SprintFunc()
	Dim    = color.New(color.Faint).SprintFunc()
)

// Formatter writes formatted output to a writer.
type Formatter interface {
	Format(w io.Writer) error
}

// OutputFormat selects how query results are written to stdout.
type OutputFormat string

const (
	FormatTerminal OutputFormat = "terminal"
	FormatJSON     OutputFormat = "json"
)

// ParseOutputFormat accepts "terminal" or "json"; empty selects terminal.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch OutputFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatTerminal:
		return FormatTerminal, nil
	case FormatJSON:
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown output format %q (expected terminal or json)", s)
	}
}

// Clear writes the ANSI clear-screen sequence to w.
func Clear(w io.Writer) {
	_, _ = io.WriteString(w, ClearScreen)
}

// DisableColors turns off color output, for JSON mode or when piping.
func DisableColors() {
	color.NoColor = true
}

// IsTerminal reports whether stdout is a terminal.
func IsTerminal() bool {
	fi, err := os.Stdout.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}

// ColorLatency colors a latency in milliseconds green, yellow or red.
func ColorLatency(ms int64) string {
	switch {
	case ms < 100:
		return Green(fmt.Sprintf("%dms", ms))
	case ms < 300:
		return Yellow(fmt.Sprintf("%dms", ms))
	default:
		return Red(fmt.Sprintf("%dms", ms))
	}
}

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripANSI removes color escape codes.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// newTable returns a table writing to w with the cyan underlined header used
// throughout the explorer.
func newTable(w io.Writer, headers ...any) table.Table {
	headerFmt := color.New(color.FgCyan, color.Underline).SprintfFunc()
	return table.New(headers...).WithHeaderFormatter(headerFmt).WithWriter(w)
}

// heading prints a bold section title followed by a rule.
func heading(w io.Writer, title string) {
	fmt.Fprintf(w, "\n%s\n", Bold(title))
	fmt.Fprintln(w, strings.Repeat("═", 51))
}

// field prints one aligned "label: value" line of a card.
func field(w io.Writer, label string, value any) {
	fmt.Fprintf(w, "  %-14s %v\n", label+":", value)
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
