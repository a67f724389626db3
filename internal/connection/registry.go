package connection

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/pkg/db"
	"github.com/eigerco/kvscope/pkg/db/pebble"
	"github.com/eigerco/kvscope/pkg/log"
)

// closeConcurrency bounds how many stores Close shuts down at once.
const closeConcurrency = 8

// Opener opens, or creates, the store at path.
type Opener func(path string) (db.KVStore, error)

// PebbleOpener returns an Opener backed by pebble with the given options.
func PebbleOpener(options pebble.Options) Opener {
	return func(path string) (db.KVStore, error) {
		return pebble.NewKVStore(path, options)
	}
}

// Registry maps connection ids to their metadata and open store. The two
// maps share one lock, which is never held across store I/O.
type Registry struct {
	mu          sync.RWMutex
	connections map[string]Info
	stores      map[string]*storeRef
	open        Opener
	now         func() time.Time
}

// NewRegistry creates an empty Registry. A nil opener opens pebble stores
// with pebble.DefaultOptions, logging through the storage logger.
func NewRegistry(open Opener) *Registry {
	if open == nil {
		opts := pebble.DefaultOptions()
		opts.Logger = &log.Storage
		open = PebbleOpener(opts)
	}
	return &Registry{
		connections: make(map[string]Info),
		stores:      make(map[string]*storeRef),
		open:        open,
		now:         time.Now,
	}
}

// Add opens the store at path and registers it under a fresh random id.
func (r *Registry) Add(name, path string) (string, error) {
	store, err := r.open(path)
	if err != nil {
		return "", kverr.Mark(err, kverr.ErrOpen, "open %s", path)
	}

	id := uuid.NewString()
	now := r.now().UTC()

	r.mu.Lock()
	r.connections[id] = Info{
		ID:           id,
		Name:         name,
		Path:         path,
		CreatedAt:    now,
		LastAccessed: now,
	}
	r.stores[id] = newStoreRef(store)
	r.mu.Unlock()

	log.Registry.Info().Str("id", id).Str("name", name).Str("path", path).Msg("connection added")
	return id, nil
}

// Remove unregisters the connection and closes its store once no handle
// is checked out. Removing an unknown id is not an error.
func (r *Registry) Remove(id string) error {
	r.mu.Lock()
	ref, ok := r.stores[id]
	delete(r.connections, id)
	delete(r.stores, id)
	r.mu.Unlock()

	if !ok {
		return nil
	}
	log.Registry.Info().Str("id", id).Msg("connection removed")
	return ref.release()
}

// List returns a snapshot of all connections in no particular order.
func (r *Registry) List() []Info {
	r.mu.RLock()
	defer r.mu.RUnlock()

	infos := make([]Info, 0, len(r.connections))
	for _, info := range r.connections {
		infos = append(infos, info)
	}
	return infos
}

// Get returns the connection with the given id.
func (r *Registry) Get(id string) (Info, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	info, ok := r.connections[id]
	return info, ok
}

// Acquire checks out the store of connection id and bumps its last access
// time. The handle must be released when the command is done.
func (r *Registry) Acquire(id string) (*Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.stores[id]
	if !ok {
		return nil, kverr.New(kverr.ErrNotFound, "connection %s", id)
	}
	info := r.connections[id]
	info.LastAccessed = r.now().UTC()
	r.connections[id] = info

	ref.acquire()
	return &Handle{id: id, ref: ref}, nil
}

// Len returns the number of open connections.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.stores)
}

// Close removes every connection, closing their stores concurrently.
func (r *Registry) Close() error {
	r.mu.Lock()
	refs := r.stores
	r.connections = make(map[string]Info)
	r.stores = make(map[string]*storeRef)
	r.mu.Unlock()

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(closeConcurrency)
	for id, ref := range refs {
		g.Go(func() error {
			if err := ref.release(); err != nil {
				mu.Lock()
				errs = append(errs, kverr.Mark(err, kverr.ErrTree, "close connection %s", id))
				mu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}
