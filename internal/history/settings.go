package history

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	"github.com/dmagro/eth-indexer-explorer/internal/store"
)

// TraceChunkSizeKey holds the user's trace chunk-size override.
const TraceChunkSizeKey = "trace-chunk-size"

// ErrInvalidChunkSize is returned by SetTraceChunkSize for anything but a positive integer.
var ErrInvalidChunkSize = errors.New("Please enter a positive integer value.")

// Settings reads and writes user preferences. Stored values that fail to parse
// are ignored in favour of the configured default.
type Settings struct {
	store store.Store
	log   *logger.Logger
}

func NewSettings(s store.Store, log *logger.Logger) *Settings {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Settings{store: s, log: log.WithComponent("settings")}
}

// TraceChunkSize returns the stored override, or def when none is set.
// overridden reports whether the stored value was used.
func (s *Settings) TraceChunkSize(ctx context.Context, def uint64) (size uint64, overridden bool, err error) {
	raw, ok, err := s.store.Get(ctx, TraceChunkSizeKey)
	if err != nil {
		return def, false, fmt.Errorf("load %s: %w", TraceChunkSizeKey, err)
	}
	if !ok {
		return def, false, nil
	}
	n, err := parsePositive(raw)
	if err != nil {
		s.log.Warnw("ignoring stored chunk size", "value", raw)
		return def, false, nil
	}
	return n, true, nil
}

// SetTraceChunkSize stores value after checking it is a positive integer.
func (s *Settings) SetTraceChunkSize(ctx context.Context, value string) (uint64, error) {
	n, err := parsePositive(value)
	if err != nil {
		return 0, err
	}
	if err := s.store.Set(ctx, TraceChunkSizeKey, strconv.FormatUint(n, 10)); err != nil {
		return 0, fmt.Errorf("save %s: %w", TraceChunkSizeKey, err)
	}
	return n, nil
}

// ResetTraceChunkSize removes the override.
func (s *Settings) ResetTraceChunkSize(ctx context.Context) error {
	if err := s.store.Delete(ctx, TraceChunkSizeKey); err != nil {
		return fmt.Errorf("reset %s: %w", TraceChunkSizeKey, err)
	}
	return nil
}

func parsePositive(s string) (uint64, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 64)
	if err != nil || n == 0 {
		return 0, ErrInvalidChunkSize
	}
	return n, nil
}
