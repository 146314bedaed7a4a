// Package env loads KEY=VALUE pairs from a .env file into the process environment.
package env

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// DefaultFile is read by Load when no explicit path is given.
const DefaultFile = ".env"

// Load reads DefaultFile. A missing file is not an error.
func Load() error {
	_, err := LoadFile(DefaultFile)
	return err
}

// LoadFile sets every assignment found in path and returns how many were applied.
//
// Blank lines and lines starting with '#' are skipped, an optional "export "
// prefix is accepted, and one layer of matching quotes is stripped from the
// value. Variables already present in the environment are overwritten so a
// .env file can pin the explorer to a specific indexer.
func LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	applied := 0
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		key, value, ok := parseLine(scanner.Text())
		if !ok {
			continue
		}
		if err := os.Setenv(key, value); err != nil {
			return applied, fmt.Errorf("set %s: %w", key, err)
		}
		applied++
	}
	if err := scanner.Err(); err != nil {
		return applied, fmt.Errorf("read %s: %w", path, err)
	}
	return applied, nil
}

func parseLine(line string) (string, string, bool) {
	line = strings.TrimSpace(line)
	if line == "" || strings.HasPrefix(line, "#") {
		return "", "", false
	}
	line = strings.TrimPrefix(line, "export ")

	key, value, found := strings.Cut(line, "=")
	if !found {
		return "", "", false
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return "", "", false
	}
	value = strings.TrimSpace(value)
	if len(value) >= 2 {
		if (value[0] == '"' && value[len(value)-1] == '"') || (value[0] == '\'' && value[len(value)-1] == '\'') {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}
