package history

import (
	"context"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/dmagro/eth-indexer-explorer/internal/query"
	"github.com/dmagro/eth-indexer-explorer/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newFileStore(t *testing.T) store.Store {
	t.Helper()
	s, err := store.NewFileStore(filepath.Join(t.TempDir(), "storage.json"))
	require.NoError(t, err)
	return s
}

// fakeClock advances one second per call.
func fakeClock(start time.Time) func() time.Time {
	n := 0
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * time.Second)
	}
}

func TestLedgerCapsAtTen(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newFileStore(t), nil)
	l.now = fakeClock(time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC))

	for i := 1; i <= MaxEntries+1; i++ {
		form := query.BlockForm{Number: strconv.Itoa(i)}
		_, err := l.Record(ctx, form, 0)
		require.NoError(t, err)
	}

	entries, err := l.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, MaxEntries)

	assert.Equal(t, "Block 11", entries[0].Query)
	assert.Equal(t, "Block 2", entries[MaxEntries-1].Query)
	for i := 1; i < len(entries); i++ {
		assert.True(t, entries[i-1].Timestamp.After(entries[i].Timestamp), "entries must be newest first")
	}
	for _, e := range entries {
		assert.NotEqual(t, "Block 1", e.Query)
	}
}

func TestLedgerRecord(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newFileStore(t), nil)
	ts := time.Date(2024, 9, 25, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return ts }

	form := query.TraceForm{StartBlock: "100"}
	entry, err := l.Record(ctx, form, 7)
	require.NoError(t, err)

	assert.Equal(t, strconv.FormatInt(ts.UnixMilli(), 10), entry.ID)
	assert.Equal(t, "Trace Filter", entry.Type)
	assert.Equal(t, "All addresses (7 traces)", entry.Query)
	assert.Equal(t, StatusSuccess, entry.Status)
	assert.Equal(t, "/trace?startblock=100", entry.Href)
}

func TestLedgerFind(t *testing.T) {
	ctx := context.Background()
	l := NewLedger(newFileStore(t), nil)
	l.now = fakeClock(time.Date(2024, 9, 25, 0, 0, 0, 0, time.UTC))

	first, err := l.Record(ctx, query.TxForm{Hash: "0x01"}, 0)
	require.NoError(t, err)
	second, err := l.Record(ctx, query.TxForm{Hash: "0x02"}, 0)
	require.NoError(t, err)

	got, err := l.Find(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, first.Href, got.Href)

	got, err = l.Find(ctx, "1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = l.Find(ctx, "3")
	assert.Error(t, err)
}

func TestLedgerCorruptPayload(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, s.Set(ctx, LedgerKey, "{not json"))

	l := NewLedger(s, nil)
	entries, err := l.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, entries)

	_, err = l.Record(ctx, query.BlockForm{}, 0)
	require.NoError(t, err)
	entries, err = l.List(ctx)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestLedgerClear(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	l := NewLedger(s, nil)

	_, err := l.Record(ctx, query.BlockForm{}, 0)
	require.NoError(t, err)
	require.NoError(t, l.Clear(ctx))

	_, ok, err := s.Get(ctx, LedgerKey)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSettingsTraceChunkSize(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	settings := NewSettings(s, nil)

	size, overridden, err := settings.TraceChunkSize(ctx, 50000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), size)
	assert.False(t, overridden)

	for _, bad := range []string{"0", "-5", "abc", ""} {
		_, err := settings.SetTraceChunkSize(ctx, bad)
		assert.ErrorIs(t, err, ErrInvalidChunkSize, bad)
	}

	n, err := settings.SetTraceChunkSize(ctx, " 2000 ")
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), n)

	size, overridden, err = settings.TraceChunkSize(ctx, 50000)
	require.NoError(t, err)
	assert.Equal(t, uint64(2000), size)
	assert.True(t, overridden)

	require.NoError(t, settings.ResetTraceChunkSize(ctx))
	size, _, err = settings.TraceChunkSize(ctx, 50000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), size)
}

func TestSettingsIgnoresGarbage(t *testing.T) {
	ctx := context.Background()
	s := newFileStore(t)
	require.NoError(t, s.Set(ctx, TraceChunkSizeKey, "lots"))

	size, overridden, err := NewSettings(s, nil).TraceChunkSize(ctx, 50000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000), size)
	assert.False(t, overridden)
}
