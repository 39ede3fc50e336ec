package memstore

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_SetGet(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("city", "Lisbon"))

	value, found, err := store.Get("city")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Lisbon", value)
}

func TestStore_SetOverwrites(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("city", "Lisbon"))
	require.NoError(t, store.Set("city", "Porto"))

	value, found, err := store.Get("city")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "Porto", value)

	entries, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, found, err := store.Get("nope")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStore_EmptyKeyRejected(t *testing.T) {
	store := newTestStore(t)
	assert.Error(t, store.Set("", "x"))
}

func TestStore_Delete(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("city", "Lisbon"))

	deleted, err := store.Delete("city")
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = store.Delete("city")
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestStore_ListByPrefix(t *testing.T) {
	store := newTestStore(t)

	require.NoError(t, store.Set("trip:city", "Lisbon"))
	require.NoError(t, store.Set("trip:hotel", "Baixa House"))
	require.NoError(t, store.Set("other", "x"))

	entries, err := store.List("trip:")
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "trip:city", entries[0].Key)
	assert.Equal(t, "trip:hotel", entries[1].Key)

	all, err := store.List("")
	require.NoError(t, err)
	assert.Len(t, all, 3)
}
