package display

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"regexp"
)

var jsonKey = regexp.MustCompile(`(?m)^(\s*)("(?:[^"\\]|\\.)*")(:)`)

// RawJSON is the raw response viewer: the body indented by two spaces, with
// object keys colored when colors are enabled.
type RawJSON struct {
	Body []byte
}

func (f *RawJSON) Format(w io.Writer) error {
	var buf bytes.Buffer
	if err := json.Indent(&buf, f.Body, "", "  "); err != nil {
		return fmt.Errorf("indent response: %w", err)
	}
	out := jsonKey.ReplaceAllFunc(buf.Bytes(), func(m []byte) []byte {
		sub := jsonKey.FindSubmatch(m)
		return []byte(string(sub[1]) + Cyan(string(sub[2])) + string(sub[3]))
	})
	_, err := fmt.Fprintf(w, "%s\n", out)
	return err
}
