package pebble

import (
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"

	"github.com/eigerco/kvscope/pkg/db"
)

// KVStore is a db.KVStore backed by a single pebble instance.
type KVStore struct {
	db     *pebble.DB
	closed bool
	mu     sync.RWMutex
}

// NewKVStore opens, or creates, a pebble store at path.
func NewKVStore(path string, options Options) (*KVStore, error) {
	cache := pebble.NewCache(options.CacheSize)
	defer cache.Unref()

	pdb, err := pebble.Open(path, options.pebbleOptions(cache))
	if err != nil {
		return nil, err
	}

	return &KVStore{db: pdb}, nil
}

// NewMemKVStore opens a pebble store whose files live only in memory.
func NewMemKVStore() (*KVStore, error) {
	opts := DefaultOptions()
	opts.InMemory = true
	return NewKVStore("", opts)
}

var _ db.KVStore = (*KVStore)(nil)

func (p *KVStore) Get(key []byte) ([]byte, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return nil, ErrClosed
	}
	return p.get(key)
}

func (p *KVStore) get(key []byte) ([]byte, error) {
	value, closer, err := p.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	defer closer.Close() //nolint:errcheck // closer only releases the read handle

	result := make([]byte, len(value))
	copy(result, value)
	return result, nil
}

func (p *KVStore) Put(key, value []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	return p.db.Set(key, value, pebble.Sync)
}

func (p *KVStore) Delete(key []byte) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return ErrClosed
	}

	return p.db.Delete(key, pebble.Sync)
}

func (p *KVStore) Swap(key, value []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	previous, err := p.get(key)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return nil, err
	}
	if err := p.db.Set(key, value, pebble.Sync); err != nil {
		return nil, err
	}
	return previous, nil
}

func (p *KVStore) Take(key []byte) ([]byte, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil, ErrClosed
	}

	previous, err := p.get(key)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if err := p.db.Delete(key, pebble.Sync); err != nil {
		return nil, err
	}
	return previous, nil
}

func (p *KVStore) DiskUsage() uint64 {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if p.closed {
		return 0
	}
	return p.db.Metrics().DiskSpaceUsage()
}

func (p *KVStore) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.db.Close()
}
