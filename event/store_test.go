package event

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acksell/gamelog/codec"
	"github.com/acksell/gamelog/kvstore"
)

func newTestStore(t *testing.T) (*Store, *kvstore.Tree) {
	db, err := kvstore.Open(kvstore.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})
	tree, err := db.Tree("game_events")
	require.NoError(t, err)
	return NewStore(tree), tree
}

var t0 = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func TestStore_InsertAll(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	first := Event{GameID: "game-1", Type: Start, Timestamp: t0}
	second := Event{GameID: "game-2", Type: Solve, Timestamp: t0.Add(time.Minute)}
	k1, k2 := uuid.NewString(), uuid.NewString()

	require.NoError(t, store.Insert(ctx, k1, first))
	require.NoError(t, store.Insert(ctx, k2, second))

	entries, err := store.All(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []Entry{
		{Key: k1, Event: first},
		{Key: k2, Event: second},
	}, entries)
}

func TestStore_Insert(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	t.Run("does not validate game id", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, "k-orphan", Event{GameID: "no-such-game", Type: Attempt, Timestamp: t0}))
	})

	t.Run("same key overwrites", func(t *testing.T) {
		require.NoError(t, store.Insert(ctx, "dup", Event{GameID: "g1", Type: Start, Timestamp: t0}))
		require.NoError(t, store.Insert(ctx, "dup", Event{GameID: "g1", Type: Solve, Timestamp: t0}))

		entries, err := store.All(ctx)
		require.NoError(t, err)
		var dups []Entry
		for _, e := range entries {
			if e.Key == "dup" {
				dups = append(dups, e)
			}
		}
		require.Len(t, dups, 1)
		assert.Equal(t, Solve, dups[0].Event.Type)
	})

	t.Run("empty key", func(t *testing.T) {
		ev := Event{GameID: "g1", Type: Attempt, Timestamp: t0}
		require.NoError(t, store.Insert(ctx, "", ev))

		entries, err := store.All(ctx)
		require.NoError(t, err)
		assert.Contains(t, entries, Entry{Key: "", Event: ev})
	})

	t.Run("unencodable", func(t *testing.T) {
		err := store.Insert(ctx, "k-bad", Event{GameID: "g1", Type: Type(42), Timestamp: t0})
		var everr *Error
		require.ErrorAs(t, err, &everr)
		assert.Equal(t, KindSerialization, everr.Kind)
		assert.Equal(t, "k-bad", everr.Key)
	})
}

func TestStore_All_Corrupt(t *testing.T) {
	store, tree := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, "a", Event{GameID: "g1", Timestamp: t0}))
	require.NoError(t, tree.Insert([]byte("b"), []byte("not an event")))

	entries, err := store.All(ctx)
	assert.Nil(t, entries)
	var everr *Error
	require.ErrorAs(t, err, &everr)
	assert.Equal(t, KindSerialization, everr.Kind)
	assert.Equal(t, "b", everr.Key)
	require.ErrorIs(t, err, codec.ErrMalformed)

	_, err = store.ForGame(ctx, "g1")
	require.ErrorIs(t, err, codec.ErrMalformed)
}

func TestStore_ForGame(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	// Keys sort in the opposite order of timestamps.
	for i := 0; i < 5; i++ {
		key := fmt.Sprintf("k%d", 9-i)
		require.NoError(t, store.Insert(ctx, key, Event{GameID: "g1", Type: Attempt, Timestamp: t0.Add(time.Duration(i) * time.Second)}))
	}
	require.NoError(t, store.Insert(ctx, "other", Event{GameID: "g2", Type: Start, Timestamp: t0}))

	entries, err := store.ForGame(ctx, "g1")
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for i, e := range entries {
		assert.Equal(t, "g1", e.Event.GameID)
		assert.Equal(t, fmt.Sprintf("k%d", 9-i), e.Key)
	}

	none, err := store.ForGame(ctx, "g3")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStore_WithTx(t *testing.T) {
	db, err := kvstore.Open(kvstore.Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	tree, err := db.Tree("game_events")
	require.NoError(t, err)
	store := NewStore(tree)
	ctx := context.Background()

	err = db.Update(func(tx *kvstore.Tx) error {
		return store.WithTx(tx).Insert(ctx, "k1", Event{GameID: "g1", Type: Start, Timestamp: t0})
	})
	require.NoError(t, err)

	entries, err := store.All(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "k1", entries[0].Key)
}
