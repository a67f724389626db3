package pebble

import (
	"fmt"

	"github.com/cockroachdb/pebble"

	"github.com/eigerco/kvscope/pkg/db"
)

type Iterator struct {
	iter    *pebble.Iterator
	reverse bool
	started bool
}

func (p *KVStore) NewIterator(start, end []byte) (db.Iterator, error) {
	return p.newIterator(start, end, false)
}

func (p *KVStore) NewReverseIterator(start, end []byte) (db.Iterator, error) {
	return p.newIterator(start, end, true)
}

func (p *KVStore) newIterator(start, end []byte, reverse bool) (db.Iterator, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: start,
		UpperBound: end,
	})
	if err != nil {
		return nil, fmt.Errorf(ErrInIteratorCreation, err)
	}
	return &Iterator{iter: iter, reverse: reverse}, nil
}

func (it *Iterator) Next() bool {
	// If the iterator is un-positioned, position it at the first key in
	// iteration order. An exhausted iterator stays exhausted.
	if !it.started {
		it.started = true
		if it.reverse {
			return it.iter.Last()
		}
		return it.iter.First()
	}
	if !it.iter.Valid() {
		return false
	}
	// Otherwise, move to the next key
	if it.reverse {
		return it.iter.Prev()
	}
	return it.iter.Next()
}

func (it *Iterator) Key() []byte {
	key := it.iter.Key()
	result := make([]byte, len(key))
	copy(result, key)
	return result
}

func (it *Iterator) Value() ([]byte, error) {
	if !it.iter.Valid() {
		return nil, ErrIteratorInvalid
	}

	val, err := it.iter.ValueAndErr()
	if err != nil {
		return nil, fmt.Errorf(ErrIteratorValue, err)
	}

	result := make([]byte, len(val))
	copy(result, val)
	return result, nil
}

func (it *Iterator) Valid() bool {
	return it.iter.Valid()
}

// Close releases the iterator and reports any error it hit while positioning.
func (it *Iterator) Close() error {
	return it.iter.Close()
}
