package store

import (
	"bytes"

	"github.com/cockroachdb/errors"

	"github.com/eigerco/kvscope/internal/connection"
	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/pkg/db"
	"github.com/eigerco/kvscope/pkg/db/pebble"
)

// ScanFunc receives each entry of a scan. Returning false stops the scan.
type ScanFunc func(key, value []byte) (bool, error)

// Tree is a view of one named key space inside a store. Keys passed to and
// returned from a Tree never include the namespace prefix. A Tree obtained
// from an Accessor holds a connection handle until Close.
type Tree struct {
	name   string
	prefix []byte
	kv     db.KVStore
	handle *connection.Handle
}

// OpenTree records name in the store's catalog, if it is not there yet, and
// returns a view of it. Opening an existing tree changes nothing.
func OpenTree(kv db.KVStore, name string) (*Tree, error) {
	name = treeName(name)
	key := catalogKey(name)
	_, err := kv.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		err = kv.Put(key, nil)
	}
	if err != nil {
		return nil, kverr.Mark(err, kverr.ErrTree, "open tree %s", name)
	}
	return &Tree{name: name, prefix: treePrefix(name), kv: kv}, nil
}

// DropTree deletes every entry of the named tree along with its catalog
// record, in one atomic batch. Dropping a tree that does not exist is a no-op.
func DropTree(kv db.KVStore, name string) error {
	name = treeName(name)
	prefix := treePrefix(name)

	batch := kv.NewBatch()
	defer batch.Close() //nolint:errcheck // no-op after commit

	if err := batch.DeleteRange(prefix, prefixEnd(prefix)); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "drop tree %s", name)
	}
	if err := batch.Delete(catalogKey(name)); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "drop tree %s", name)
	}
	if err := batch.Commit(); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "drop tree %s", name)
	}
	return nil
}

// ListTrees returns the names of all trees in the catalog, in byte order.
func ListTrees(kv db.KVStore) ([]string, error) {
	iter, err := kv.NewIterator([]byte{prefixTreeCatalog}, []byte{prefixTreeCatalog + 1})
	if err != nil {
		return nil, kverr.Mark(err, kverr.ErrTree, "list trees")
	}

	names := []string{}
	for iter.Next() {
		names = append(names, string(iter.Key()[1:]))
	}
	if err := iter.Close(); err != nil {
		return nil, kverr.Mark(err, kverr.ErrTree, "list trees")
	}
	return names, nil
}

func treeName(name string) string {
	if name == "" {
		return DefaultTree
	}
	return name
}

// Name returns the tree's name.
func (t *Tree) Name() string {
	return t.name
}

// Close releases the connection handle backing the tree, if any.
func (t *Tree) Close() error {
	if t.handle == nil {
		return nil
	}
	return t.handle.Release()
}

// Get returns the value stored under key and whether it exists.
func (t *Tree) Get(key []byte) ([]byte, bool, error) {
	value, err := t.kv.Get(join(t.prefix, key))
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, kverr.Mark(err, kverr.ErrTree, "get %q from tree %s", key, t.name)
	}
	return value, true, nil
}

// Put stores value under key, replacing any existing value.
func (t *Tree) Put(key, value []byte) error {
	if err := t.kv.Put(join(t.prefix, key), value); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "put %q into tree %s", key, t.name)
	}
	return nil
}

// Swap stores value under key and returns the value it replaced, or nil.
func (t *Tree) Swap(key, value []byte) ([]byte, error) {
	previous, err := t.kv.Swap(join(t.prefix, key), value)
	if err != nil {
		return nil, kverr.Mark(err, kverr.ErrTree, "put %q into tree %s", key, t.name)
	}
	return previous, nil
}

// Take removes key and returns the value it held, or nil.
func (t *Tree) Take(key []byte) ([]byte, error) {
	removed, err := t.kv.Take(join(t.prefix, key))
	if err != nil {
		return nil, kverr.Mark(err, kverr.ErrTree, "remove %q from tree %s", key, t.name)
	}
	return removed, nil
}

// Scan visits the entries with from <= key < to in ascending key order, or
// descending when reverse is set. A nil bound is open.
func (t *Tree) Scan(from, to []byte, reverse bool, fn ScanFunc) error {
	if from != nil && to != nil && bytes.Compare(from, to) >= 0 {
		return nil
	}

	lower := t.prefix
	if from != nil {
		lower = join(t.prefix, from)
	}
	upper := prefixEnd(t.prefix)
	if to != nil {
		upper = join(t.prefix, to)
	}
	return t.scan(lower, upper, reverse, fn)
}

// ScanPrefix visits, in ascending order, every entry whose key starts with
// prefix. An empty prefix visits the whole tree.
func (t *Tree) ScanPrefix(prefix []byte, fn ScanFunc) error {
	lower := join(t.prefix, prefix)
	return t.scan(lower, prefixEnd(lower), false, fn)
}

// Len counts the entries of the tree.
func (t *Tree) Len() (int, error) {
	count := 0
	err := t.scan(t.prefix, prefixEnd(t.prefix), false, func(_, _ []byte) (bool, error) {
		count++
		return true, nil
	})
	return count, err
}

func (t *Tree) scan(lower, upper []byte, reverse bool, fn ScanFunc) (err error) {
	var iter db.Iterator
	if reverse {
		iter, err = t.kv.NewReverseIterator(lower, upper)
	} else {
		iter, err = t.kv.NewIterator(lower, upper)
	}
	if err != nil {
		return kverr.Mark(err, kverr.ErrTree, "scan tree %s", t.name)
	}
	defer func() {
		if closeErr := iter.Close(); closeErr != nil && err == nil {
			err = kverr.Mark(closeErr, kverr.ErrTree, "scan tree %s", t.name)
		}
	}()

	for iter.Next() {
		value, err := iter.Value()
		if err != nil {
			return kverr.Mark(err, kverr.ErrTree, "scan tree %s", t.name)
		}
		more, err := fn(iter.Key()[len(t.prefix):], value)
		if err != nil {
			return err
		}
		if !more {
			return nil
		}
	}
	return nil
}

// Batch collects writes to a tree and applies them atomically on Commit.
type Batch struct {
	tree  *Tree
	batch db.Batch
}

// NewBatch starts a write batch on the tree.
func (t *Tree) NewBatch() *Batch {
	return &Batch{tree: t, batch: t.kv.NewBatch()}
}

func (b *Batch) Put(key, value []byte) error {
	if err := b.batch.Put(join(b.tree.prefix, key), value); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "put %q into tree %s", key, b.tree.name)
	}
	return nil
}

// Len returns the number of queued writes.
func (b *Batch) Len() int {
	return b.batch.Len()
}

func (b *Batch) Commit() error {
	if err := b.batch.Commit(); err != nil {
		return kverr.Mark(err, kverr.ErrTree, "commit batch to tree %s", b.tree.name)
	}
	return nil
}

func (b *Batch) Close() error {
	return b.batch.Close()
}
