package pebble

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eigerco/kvscope/pkg/db"
)

func TestIterator(t *testing.T) {
	tests := []struct {
		name string
		fn   func(t *testing.T, store db.KVStore)
	}{
		{
			name: "full_range_iteration",
			fn:   testFullRangeIteration,
		},
		{
			name: "bounded_range_iteration",
			fn:   testBoundedRangeIteration,
		},
		{
			name: "reverse_iteration",
			fn:   testReverseIteration,
		},
		{
			name: "iterator_validity",
			fn:   testIteratorValidity,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			store, err := NewMemKVStore()
			require.NoError(t, err)
			defer store.Close() //nolint:errcheck // test cleanup

			for _, k := range []string{"d", "a", "e", "c", "b"} {
				require.NoError(t, store.Put([]byte(k), []byte("value-"+k)))
			}

			tc.fn(t, store)
		})
	}
}

func collect(t *testing.T, iter db.Iterator) []string {
	t.Helper()
	defer iter.Close() //nolint:errcheck // test helper

	var keys []string
	for iter.Next() {
		value, err := iter.Value()
		require.NoError(t, err)
		assert.Equal(t, "value-"+string(iter.Key()), string(value))
		keys = append(keys, string(iter.Key()))
	}
	return keys
}

func testFullRangeIteration(t *testing.T, store db.KVStore) {
	iter, err := store.NewIterator(nil, nil)
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, collect(t, iter))
}

func testBoundedRangeIteration(t *testing.T, store db.KVStore) {
	iter, err := store.NewIterator([]byte("b"), []byte("e"))
	require.NoError(t, err)

	assert.Equal(t, []string{"b", "c", "d"}, collect(t, iter))
}

func testReverseIteration(t *testing.T, store db.KVStore) {
	iter, err := store.NewReverseIterator([]byte("b"), []byte("e"))
	require.NoError(t, err)
	assert.Equal(t, []string{"d", "c", "b"}, collect(t, iter))

	iter, err = store.NewReverseIterator(nil, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, collect(t, iter))
}

func testIteratorValidity(t *testing.T, store db.KVStore) {
	iter, err := store.NewIterator([]byte("a"), []byte("c"))
	require.NoError(t, err)
	defer iter.Close() //nolint:errcheck // test cleanup

	// Initial state - iterator is not positioned
	assert.False(t, iter.Valid())

	// First Next() should position at first element
	assert.True(t, iter.Next())
	assert.True(t, iter.Valid())
	assert.Equal(t, []byte("a"), iter.Key())

	assert.True(t, iter.Next())
	assert.Equal(t, []byte("b"), iter.Key())

	// No more elements, and it stays exhausted
	assert.False(t, iter.Next())
	assert.False(t, iter.Valid())
	assert.False(t, iter.Next())

	// Value() should error when invalid
	_, err = iter.Value()
	assert.ErrorIs(t, err, ErrIteratorInvalid)
}
