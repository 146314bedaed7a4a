// Package store persists small string values by key, the way a browser's
// local storage would. The history package keeps the recent-queries ledger
// and user settings in it.
package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmagro/eth-indexer-explorer/internal/config"
	"github.com/dmagro/eth-indexer-explorer/internal/logger"
)

// ErrUnknownDriver is returned by Open for an unsupported storage driver.
var ErrUnknownDriver = errors.New("unknown storage driver")

// Store is a key/value store. Get reports ok=false for a missing key.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Open creates the store selected by cfg.Driver.
func Open(cfg config.StorageConfig, log *logger.Logger) (Store, error) {
	switch cfg.Driver {
	case config.DriverFile, "":
		return NewFileStore(cfg.Path)
	case config.DriverSQLite:
		return NewSQLiteStore(cfg.Path, log)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
