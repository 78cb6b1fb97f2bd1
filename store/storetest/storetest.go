// Package storetest checks that a store.Store implementation behaves like
// an append-only, per-id event log.
package storetest

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/ink"
	"github.com/gogpu/ink/store"
)

// Events returns a short stroke with fractional coordinates, timestamps
// starting at base.
func Events(base int64) []ink.RawEvent {
	return []ink.RawEvent{
		{Timestamp: base, Action: ink.ActionDown, X: 10.5, Y: 20.25},
		{Timestamp: base + 8, Action: ink.ActionMove, X: 14.125, Y: 22},
		{Timestamp: base + 16, Action: ink.ActionMove, X: 0.1, Y: -3.75},
		{Timestamp: base + 24, Action: ink.ActionUp, X: 31, Y: 1e-3},
	}
}

// Run exercises a fresh Store returned by open. The store is closed at
// the end of the test.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("AppendInOrder", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		id := store.NewID()
		want := Events(1000)
		require.NoError(t, st.Append(ctx, id, want[:1]...))
		require.NoError(t, st.Append(ctx, id, want[1:]...))

		got, err := st.Events(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("UnknownIDIsEmpty", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		got, err := st.Events(ctx, store.NewID())
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("IsolatedIDs", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		a, b := "a-"+store.NewID(), "b-"+store.NewID()
		require.NoError(t, st.Append(ctx, a, Events(0)...))
		require.NoError(t, st.Append(ctx, b, Events(500)[:2]...))

		got, err := st.Events(ctx, b)
		require.NoError(t, err)
		assert.Equal(t, Events(500)[:2], got)

		ids, err := st.IDs(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{a, b}, ids)
	})

	t.Run("Delete", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		id := store.NewID()
		require.NoError(t, st.Append(ctx, id, Events(0)...))
		require.NoError(t, st.Delete(ctx, id))
		require.NoError(t, st.Delete(ctx, id))

		got, err := st.Events(ctx, id)
		require.NoError(t, err)
		assert.Empty(t, got)
	})

	t.Run("EmptyAppend", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		id := store.NewID()
		require.NoError(t, st.Append(ctx, id))
		ids, err := st.IDs(ctx)
		require.NoError(t, err)
		assert.NotContains(t, ids, id)
	})

	t.Run("ConcurrentAppend", func(t *testing.T) {
		st := open(t)
		defer st.Close()

		const writers = 8
		var wg sync.WaitGroup
		for w := 0; w < writers; w++ {
			wg.Add(1)
			go func(w int) {
				defer wg.Done()
				assert.NoError(t, st.Append(ctx, "shared", Events(int64(w)*100)...))
			}(w)
		}
		wg.Wait()

		got, err := st.Events(ctx, "shared")
		require.NoError(t, err)
		assert.Len(t, got, writers*len(Events(0)))
	})

	t.Run("Closed", func(t *testing.T) {
		st := open(t)
		require.NoError(t, st.Close())

		err := st.Append(ctx, "x", Events(0)...)
		assert.ErrorIs(t, err, store.ErrClosed)
		_, err = st.Events(ctx, "x")
		assert.ErrorIs(t, err, store.ErrClosed)
	})
}
