package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// storeUnderTest runs the contract suite against every backend that
// can be exercised without external services
func storesUnderTest(t *testing.T) map[string]Store {
	t.Helper()

	sqlitePath := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	sqliteStore, err := NewSQLiteStore(sqlitePath)
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqliteStore.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"sqlite": sqliteStore,
	}
}

func TestStore_GetMissingKey(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			_, err := s.Get(context.Background(), "absent")
			assert.ErrorIs(t, err, ErrKeyNotFound)
		})
	}
}

func TestStore_SetGetRoundTrip(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.Set(ctx, "k", "v1"))

			got, err := s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v1", got)

			// overwrite
			require.NoError(t, s.Set(ctx, "k", "v2"))
			got, err = s.Get(ctx, "k")
			require.NoError(t, err)
			assert.Equal(t, "v2", got)
		})
	}
}

func TestStore_SetMulti(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SetMulti(ctx, map[string]string{
				"a": "1",
				"b": "2",
			}))

			a, err := s.Get(ctx, "a")
			require.NoError(t, err)
			b, err := s.Get(ctx, "b")
			require.NoError(t, err)
			assert.Equal(t, "1", a)
			assert.Equal(t, "2", b)
		})
	}
}

func TestStore_DeleteMultiple(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, s.SetMulti(ctx, map[string]string{
				"a": "1",
				"b": "2",
				"c": "3",
			}))

			require.NoError(t, s.Delete(ctx, "a", "b"))

			_, err := s.Get(ctx, "a")
			assert.ErrorIs(t, err, ErrKeyNotFound)
			_, err = s.Get(ctx, "b")
			assert.ErrorIs(t, err, ErrKeyNotFound)

			c, err := s.Get(ctx, "c")
			require.NoError(t, err)
			assert.Equal(t, "3", c)
		})
	}
}

func TestStore_DeleteMissingKeysIsNoError(t *testing.T) {
	for name, s := range storesUnderTest(t) {
		t.Run(name, func(t *testing.T) {
			assert.NoError(t, s.Delete(context.Background(), "nope"))
		})
	}
}
