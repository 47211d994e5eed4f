package history

import (
	"context"
	"testing"
	"time"

	"github.com/creatorstation/imgenhancer/internal/db"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seed(t *testing.T, store db.KeyValueStore, records []Record) {
	t.Helper()
	require.NoError(t, db.SetJSON(context.Background(), store, Key, records))
}

func TestSweeper_RemovesOlderThanMaxAge(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(epoch)
	store := newRecordingStore()
	cache := NewCache(store, clock, nil)

	now := epoch.UnixMilli()
	seed(t, store, []Record{
		{Data: "fresh", Timestamp: now},
		{Data: "23h", Timestamp: now - (23 * time.Hour).Milliseconds()},
		{Data: "25h", Timestamp: now - (25 * time.Hour).Milliseconds()},
	})

	removed, err := NewSweeper(cache, MaxAge).Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "fresh", records[0].Data)
	assert.Equal(t, "23h", records[1].Data)
}

func TestSweeper_ExactlyMaxAgeSurvives(t *testing.T) {
	ctx := context.Background()
	store := db.NewMemoryStore()
	cache := NewCache(store, clockwork.NewFakeClockAt(epoch), nil)

	seed(t, store, []Record{{Data: "edge", Timestamp: epoch.Add(-MaxAge).UnixMilli()}})

	removed, err := NewSweeper(cache, MaxAge).Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
}

func TestSweeper_NoStaleEntriesIssuesNoWrite(t *testing.T) {
	ctx := context.Background()
	store := newRecordingStore()
	cache := NewCache(store, clockwork.NewFakeClockAt(epoch), nil)

	seed(t, store, []Record{
		{Data: "a", Timestamp: epoch.UnixMilli()},
		{Data: "b", Timestamp: epoch.Add(-time.Hour).UnixMilli()},
	})
	before, err := store.Get(ctx, Key)
	require.NoError(t, err)
	writes := store.setCount()

	removed, err := NewSweeper(cache, MaxAge).Sweep(ctx)
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Equal(t, writes, store.setCount())

	after, err := store.Get(ctx, Key)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestSweeper_EmptyStore(t *testing.T) {
	store := newRecordingStore()
	cache := NewCache(store, clockwork.NewFakeClockAt(epoch), nil)

	removed, err := NewSweeper(cache, 0).Sweep(context.Background())
	require.NoError(t, err)
	assert.Zero(t, removed)
	assert.Zero(t, store.setCount())
}

func TestSweeper_AgesWithClock(t *testing.T) {
	ctx := context.Background()
	clock := clockwork.NewFakeClockAt(epoch)
	cache := NewCache(db.NewMemoryStore(), clock, nil)
	sweeper := NewSweeper(cache, MaxAge)

	require.NoError(t, cache.Record(ctx, "a"))
	clock.Advance(MaxAge + time.Millisecond)
	require.NoError(t, cache.Record(ctx, "b"))

	removed, err := sweeper.Sweep(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	records, err := cache.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].Data)
}

func TestSweeper_RunSwallowsErrors(t *testing.T) {
	store := db.NewMemoryStore()
	require.NoError(t, store.Set(context.Background(), Key, []byte("not json")))
	cache := NewCache(store, clockwork.NewFakeClockAt(epoch), nil)

	assert.NotPanics(t, NewSweeper(cache, MaxAge).Run)
}
