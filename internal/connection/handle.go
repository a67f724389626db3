package connection

import (
	"sync"

	"github.com/eigerco/kvscope/pkg/db"
	"github.com/eigerco/kvscope/pkg/log"
)

// storeRef counts the registry's own reference plus one per checked out
// Handle. The store is closed when the count drops to zero.
type storeRef struct {
	store db.KVStore
	mu    sync.Mutex
	refs  int
}

func newStoreRef(store db.KVStore) *storeRef {
	return &storeRef{store: store, refs: 1}
}

func (s *storeRef) acquire() {
	s.mu.Lock()
	s.refs++
	s.mu.Unlock()
}

func (s *storeRef) release() error {
	s.mu.Lock()
	s.refs--
	last := s.refs == 0
	s.mu.Unlock()

	if !last {
		return nil
	}
	if err := s.store.Close(); err != nil {
		log.Registry.Error().Err(err).Msg("close store")
		return err
	}
	return nil
}

// Handle is a checked out store. It stays usable after the connection is
// removed, until Release.
type Handle struct {
	id       string
	ref      *storeRef
	released sync.Once
}

// ID returns the connection id the handle was acquired for.
func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) Store() db.KVStore {
	return h.ref.store
}

// Release returns the handle. Releasing twice is a no-op.
func (h *Handle) Release() error {
	var err error
	h.released.Do(func() {
		err = h.ref.release()
	})
	return err
}
