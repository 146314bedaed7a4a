package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	_ "github.com/mattn/go-sqlite3"
	"github.com/russross/meddler"
)

const kvTable = "kv"

type kvRow struct {
	ID        int64  `meddler:"id,pk"`
	Name      string `meddler:"name"`
	Value     string `meddler:"value"`
	UpdatedAt int64  `meddler:"updated_at"`
}

// SQLiteStore keeps keys in the kv table of a SQLite database.
type SQLiteStore struct {
	db  *sql.DB
	log *logger.Logger
}

// NewSQLiteStore opens (creating if needed) the database at path and migrates it.
func NewSQLiteStore(path string, log *logger.Logger) (*SQLiteStore, error) {
	if path == "" {
		return nil, errors.New("sqlite store: path is required")
	}
	if log == nil {
		log = logger.NewNopLogger()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite3", fmt.Sprintf(
		"file:%s?_txlock=immediate&_foreign_keys=on&_journal_mode=WAL&_busy_timeout=30000",
		path,
	))
	if err != nil {
		return nil, fmt.Errorf("sqlite store: open %s: %w", path, err)
	}

	log = log.WithComponent("sqlite-store")
	if err := runMigrations(log, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("sqlite store: %w", err)
	}

	return &SQLiteStore{db: db, log: log}, nil
}

func (s *SQLiteStore) Get(ctx context.Context, key string) (string, bool, error) {
	row, err := s.find(ctx, s.db, key)
	if err != nil {
		return "", false, err
	}
	if row == nil {
		return "", false, nil
	}
	return row.Value, true, nil
}

func (s *SQLiteStore) Set(ctx context.Context, key, value string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite store: begin: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	row, err := s.find(ctx, tx, key)
	if err != nil {
		return err
	}
	now := time.Now().UnixMilli()
	if row == nil {
		err = meddler.Insert(tx, kvTable, &kvRow{Name: key, Value: value, UpdatedAt: now})
	} else {
		row.Value = value
		row.UpdatedAt = now
		err = meddler.Update(tx, kvTable, row)
	}
	if err != nil {
		return fmt.Errorf("sqlite store: write %q: %w", key, err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("sqlite store: commit: %w", err)
	}
	s.log.Debugw("stored value", "key", key, "bytes", len(value))
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv WHERE name = ?`, key); err != nil {
		return fmt.Errorf("sqlite store: delete %q: %w", key, err)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

type queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

func (s *SQLiteStore) find(ctx context.Context, q queryer, key string) (*kvRow, error) {
	rows, err := q.QueryContext(ctx, `SELECT * FROM kv WHERE name = ?`, key)
	if err != nil {
		return nil, fmt.Errorf("sqlite store: read %q: %w", key, err)
	}
	var row kvRow
	if err := meddler.ScanRow(rows, &row); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("sqlite store: scan %q: %w", key, err)
	}
	return &row, nil
}
