package eventstore

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testStores(t *testing.T) map[string]Store {
	t.Helper()
	sqliteStore, err := NewSQLiteStore(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStoreEventReturnsOrderedIDs(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id1, err := store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"n":1}`))
			require.NoError(t, err)
			id2, err := store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"n":2}`))
			require.NoError(t, err)
			assert.NotEqual(t, id1, id2)
		})
	}
}

func TestReplayAfterReturnsOnlyLaterEvents(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			id1, err := store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"n":1}`))
			require.NoError(t, err)
			_, err = store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"n":2}`))
			require.NoError(t, err)
			_, err = store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"n":3}`))
			require.NoError(t, err)

			var replayed []json.RawMessage
			stream, err := store.ReplayAfter(ctx, id1, func(id EventID, msg json.RawMessage) error {
				replayed = append(replayed, msg)
				return nil
			})
			require.NoError(t, err)
			assert.Equal(t, StreamID("stream-a"), stream)
			require.Len(t, replayed, 2)
			assert.JSONEq(t, `{"n":2}`, string(replayed[0]))
			assert.JSONEq(t, `{"n":3}`, string(replayed[1]))
		})
	}
}

func TestReplayAfterIsolatesStreams(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			idA, err := store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"s":"a1"}`))
			require.NoError(t, err)
			_, err = store.StoreEvent(ctx, "stream-b", json.RawMessage(`{"s":"b1"}`))
			require.NoError(t, err)
			_, err = store.StoreEvent(ctx, "stream-a", json.RawMessage(`{"s":"a2"}`))
			require.NoError(t, err)

			var replayed []json.RawMessage
			_, err = store.ReplayAfter(ctx, idA, func(id EventID, msg json.RawMessage) error {
				replayed = append(replayed, msg)
				return nil
			})
			require.NoError(t, err)
			require.Len(t, replayed, 1)
			assert.JSONEq(t, `{"s":"a2"}`, string(replayed[0]))
		})
	}
}

func TestReplayAfterUnknownEventIDFails(t *testing.T) {
	for name, store := range testStores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.ReplayAfter(context.Background(), EventID("nonexistent:1"), func(EventID, json.RawMessage) error {
				return nil
			})
			assert.Error(t, err)
		})
	}
}
