package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *LocalStore {
	t.Helper()
	store, err := NewLocalStore(t.TempDir(), "https://img.test")
	require.NoError(t, err)
	return store
}

func TestLocalStorePutAndURL(t *testing.T) {
	store := newTestStore(t)

	key := BuildKey("alice", 1767225600000, "a1b2c3d4")
	require.NoError(t, store.Put(key, []byte("payload"), "image/jpeg"))

	data, err := os.ReadFile(filepath.Join(store.Root(), filepath.FromSlash(key)))
	require.NoError(t, err)
	require.Equal(t, []byte("payload"), data)

	require.Equal(t, "https://img.test/"+key, store.URL(key))
}

func TestLocalStorePutConfinesKeysToRoot(t *testing.T) {
	parent := t.TempDir()
	root := filepath.Join(parent, "data")
	store, err := NewLocalStore(root, "")
	require.NoError(t, err)

	require.NoError(t, store.Put("images/../../escape.jpg", []byte("x"), "image/jpeg"))

	// the dotted key collapses inside the root instead of escaping it
	_, err = os.Stat(filepath.Join(parent, "escape.jpg"))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(root, "escape.jpg"))
	require.NoError(t, err)
}

func TestLocalStoreListPagination(t *testing.T) {
	store := newTestStore(t)

	var keys []string
	for i := range 7 {
		key := fmt.Sprintf("%sobj%02d.jpg", KeyPrefix, i)
		keys = append(keys, key)
		require.NoError(t, store.Put(key, []byte("x"), "image/jpeg"))
	}
	// outside the listed namespace
	require.NoError(t, store.Put("other/skip.jpg", []byte("x"), "image/jpeg"))

	first, err := store.List(KeyPrefix, "", 3)
	require.NoError(t, err)
	require.Len(t, first.Objects, 3)
	require.True(t, first.Truncated)
	require.Equal(t, keys[0], first.Objects[0].Key)
	require.Equal(t, keys[2], first.Cursor)

	second, err := store.List(KeyPrefix, first.Cursor, 3)
	require.NoError(t, err)
	require.Len(t, second.Objects, 3)
	require.True(t, second.Truncated)
	require.Equal(t, keys[3], second.Objects[0].Key)

	last, err := store.List(KeyPrefix, second.Cursor, 3)
	require.NoError(t, err)
	require.Len(t, last.Objects, 1)
	require.False(t, last.Truncated)
	require.Equal(t, keys[6], last.Objects[0].Key)
}

func TestLocalStoreListEmpty(t *testing.T) {
	store := newTestStore(t)

	result, err := store.List(KeyPrefix, "", 10)
	require.NoError(t, err)
	require.Empty(t, result.Objects)
	require.False(t, result.Truncated)
	require.Empty(t, result.Cursor)
}
