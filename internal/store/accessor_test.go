package store

import (
	"path/filepath"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/kvscope/internal/connection"
	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/pkg/db"
	"github.com/eigerco/kvscope/pkg/db/pebble"
)

func newAccessor(t *testing.T) (*Accessor, *connection.Registry, string) {
	t.Helper()
	registry := connection.NewRegistry(func(string) (db.KVStore, error) {
		return pebble.NewMemKVStore()
	})
	t.Cleanup(func() {
		require.NoError(t, registry.Close())
	})
	id, err := registry.Add("tree_test", "")
	require.NoError(t, err)
	return NewAccessor(registry), registry, id
}

func TestAccessor_ResolveDefault(t *testing.T) {
	a, _, id := newAccessor(t)

	tree, err := a.Resolve(id, "")
	require.NoError(t, err)
	assert.Equal(t, DefaultTree, tree.Name())
	require.NoError(t, tree.Put([]byte("k"), []byte("v")))
	require.NoError(t, tree.Close())

	same, err := a.Resolve(id, "default")
	require.NoError(t, err)
	defer same.Close() //nolint:errcheck // test cleanup

	value, found, err := same.Get([]byte("k"))
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, []byte("v"), value)
}

func TestAccessor_CreateAndRemoveTree(t *testing.T) {
	a, _, id := newAccessor(t)

	require.NoError(t, a.CreateTree(id, "test_tree"))

	trees, err := a.ListTrees(id)
	require.NoError(t, err)
	assert.Contains(t, trees, "test_tree")

	require.NoError(t, a.RemoveTree(id, "test_tree"))
	trees, err = a.ListTrees(id)
	require.NoError(t, err)
	assert.NotContains(t, trees, "test_tree")

	assert.NoError(t, a.RemoveTree(id, "test_tree"))
}

func TestAccessor_UnknownConnection(t *testing.T) {
	a, _, _ := newAccessor(t)

	_, err := a.Resolve("nope", "")
	assert.True(t, errors.Is(err, kverr.ErrNotFound))
	assert.True(t, errors.Is(a.CreateTree("nope", "t"), kverr.ErrNotFound))
	assert.True(t, errors.Is(a.RemoveTree("nope", "t"), kverr.ErrNotFound))
	_, err = a.ListTrees("nope")
	assert.True(t, errors.Is(err, kverr.ErrNotFound))
	_, err = a.Stats("nope")
	assert.True(t, errors.Is(err, kverr.ErrNotFound))
}

func TestAccessor_TreeKeepsStoreOpenAfterRemoval(t *testing.T) {
	a, registry, id := newAccessor(t)

	tree, err := a.Resolve(id, "t")
	require.NoError(t, err)
	require.NoError(t, registry.Remove(id))

	require.NoError(t, tree.Put([]byte("k"), []byte("v")))
	require.NoError(t, tree.Close())

	_, err = a.Resolve(id, "t")
	assert.True(t, errors.Is(err, kverr.ErrNotFound))
}

func TestAccessor_Stats(t *testing.T) {
	a, _, id := newAccessor(t)

	stats, err := a.Stats(id)
	require.NoError(t, err)
	assert.Zero(t, stats.KeyCount)
	assert.Zero(t, stats.TreeCount)

	def, err := a.Resolve(id, "")
	require.NoError(t, err)
	for _, k := range []string{"stats_key_0", "stats_key_1", "stats_key_2"} {
		require.NoError(t, def.Put([]byte(k), []byte("v")))
	}
	require.NoError(t, def.Close())

	other, err := a.Resolve(id, "other")
	require.NoError(t, err)
	require.NoError(t, other.Put([]byte("x"), []byte("y")))
	require.NoError(t, other.Close())

	stats, err = a.Stats(id)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.KeyCount)
	assert.Equal(t, 2, stats.TreeCount)
	assert.False(t, stats.LastModified.IsZero())
}

func TestAccessor_StatsOnDisk(t *testing.T) {
	registry := connection.NewRegistry(nil)
	defer registry.Close() //nolint:errcheck // test cleanup

	id, err := registry.Add("disk", filepath.Join(t.TempDir(), "db"))
	require.NoError(t, err)
	a := NewAccessor(registry)

	tree, err := a.Resolve(id, "")
	require.NoError(t, err)
	require.NoError(t, tree.Put([]byte("k"), []byte("v")))
	require.NoError(t, tree.Close())

	stats, err := a.Stats(id)
	require.NoError(t, err)
	assert.NotZero(t, stats.SizeOnDisk)
	assert.Equal(t, 1, stats.KeyCount)
	assert.Equal(t, 1, stats.TreeCount)
}

func TestCatalog_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	kv, err := pebble.NewKVStore(path, pebble.DefaultOptions())
	require.NoError(t, err)
	_, err = OpenTree(kv, "empty_but_kept")
	require.NoError(t, err)
	require.NoError(t, kv.Close())

	kv, err = pebble.NewKVStore(path, pebble.DefaultOptions())
	require.NoError(t, err)
	defer kv.Close() //nolint:errcheck // test cleanup

	names, err := ListTrees(kv)
	require.NoError(t, err)
	assert.Equal(t, []string{"empty_but_kept"}, names)
}
