// Package history keeps the recent-queries ledger and the user settings that
// survive between explorer runs.
package history

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/logger"
	"github.com/dmagro/eth-indexer-explorer/internal/query"
	"github.com/dmagro/eth-indexer-explorer/internal/store"
)

const (
	// LedgerKey is the storage key holding the recent-queries list.
	LedgerKey = "ethereum-indexer-queries"
	// MaxEntries is how many queries the ledger keeps.
	MaxEntries = 10
)

type Status string

const (
	StatusSuccess Status = "success"
	StatusError   Status = "error"
)

// RecentQuery is one ledger entry. The JSON field names are the stored format.
type RecentQuery struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Query     string    `json:"query"`
	Timestamp time.Time `json:"timestamp"`
	Status    Status    `json:"status"`
	Href      string    `json:"href,omitempty"`
}

// Ledger is the capped, newest-first list of recent queries.
type Ledger struct {
	mu    sync.Mutex
	store store.Store
	log   *logger.Logger
	now   func() time.Time
}

func NewLedger(s store.Store, log *logger.Logger) *Ledger {
	if log == nil {
		log = logger.NewNopLogger()
	}
	return &Ledger{
		store: s,
		log:   log.WithComponent("history"),
		now:   time.Now,
	}
}

// Record stores a successful query built from form. results is passed to the
// form's summary.
func (l *Ledger) Record(ctx context.Context, form query.Form, results int) (RecentQuery, error) {
	entry := RecentQuery{
		Type:   string(form.Kind()),
		Query:  form.Summary(results),
		Status: StatusSuccess,
		Href:   form.Href(),
	}
	if err := l.Add(ctx, &entry); err != nil {
		return RecentQuery{}, err
	}
	return entry, nil
}

// Add prepends entry and truncates the list to MaxEntries. ID and Timestamp
// are filled in from the clock when empty.
func (l *Ledger) Add(ctx context.Context, entry *RecentQuery) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = l.now()
	}
	if entry.ID == "" {
		entry.ID = strconv.FormatInt(entry.Timestamp.UnixMilli(), 10)
	}

	entries, err := l.load(ctx)
	if err != nil {
		return err
	}
	entries = append([]RecentQuery{*entry}, entries...)
	if len(entries) > MaxEntries {
		entries = entries[:MaxEntries]
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encode recent queries: %w", err)
	}
	if err := l.store.Set(ctx, LedgerKey, string(data)); err != nil {
		return fmt.Errorf("save recent queries: %w", err)
	}
	l.log.Debugw("recorded query", "type", entry.Type, "id", entry.ID, "entries", len(entries))
	return nil
}

// List returns the stored entries, newest first.
func (l *Ledger) List(ctx context.Context) ([]RecentQuery, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.load(ctx)
}

// Find looks an entry up by id, or by its 1-based position in List.
func (l *Ledger) Find(ctx context.Context, ref string) (RecentQuery, error) {
	entries, err := l.List(ctx)
	if err != nil {
		return RecentQuery{}, err
	}
	for _, e := range entries {
		if e.ID == ref {
			return e, nil
		}
	}
	if n, err := strconv.Atoi(ref); err == nil && n >= 1 && n <= len(entries) {
		return entries[n-1], nil
	}
	return RecentQuery{}, fmt.Errorf("no recent query %q", ref)
}

func (l *Ledger) Clear(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if err := l.store.Delete(ctx, LedgerKey); err != nil {
		return fmt.Errorf("clear recent queries: %w", err)
	}
	return nil
}

// load reads the stored list. A payload that does not decode is logged and
// treated as empty so a damaged ledger never blocks new queries.
func (l *Ledger) load(ctx context.Context) ([]RecentQuery, error) {
	raw, ok, err := l.store.Get(ctx, LedgerKey)
	if err != nil {
		return nil, fmt.Errorf("load recent queries: %w", err)
	}
	if !ok || raw == "" {
		return nil, nil
	}
	var entries []RecentQuery
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		l.log.Errorw("failed to parse recent queries", "error", err)
		return nil, nil
	}
	return entries, nil
}
