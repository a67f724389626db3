package store

import (
	"github.com/eigerco/kvscope/internal/connection"
	"github.com/eigerco/kvscope/pkg/log"
)

// Accessor resolves (connection id, tree name) pairs to trees.
type Accessor struct {
	registry *connection.Registry
}

// NewAccessor creates an Accessor over the given registry.
func NewAccessor(registry *connection.Registry) *Accessor {
	return &Accessor{registry: registry}
}

// Resolve opens the named tree of connection id, creating it if needed. An
// empty name resolves to DefaultTree. The caller must Close the tree.
func (a *Accessor) Resolve(id, name string) (*Tree, error) {
	h, err := a.registry.Acquire(id)
	if err != nil {
		return nil, err
	}

	tree, err := OpenTree(h.Store(), name)
	if err != nil {
		_ = h.Release()
		return nil, err
	}
	tree.handle = h
	return tree, nil
}

// CreateTree makes sure the named tree exists.
func (a *Accessor) CreateTree(id, name string) error {
	tree, err := a.Resolve(id, name)
	if err != nil {
		return err
	}
	log.Storage.Debug().Str("id", id).Str("tree", tree.Name()).Msg("tree created")
	return tree.Close()
}

// RemoveTree drops the named tree and all of its entries.
func (a *Accessor) RemoveTree(id, name string) error {
	return a.withStore(id, func(h *connection.Handle) error {
		if err := DropTree(h.Store(), name); err != nil {
			return err
		}
		log.Storage.Info().Str("id", id).Str("tree", treeName(name)).Msg("tree dropped")
		return nil
	})
}

// ListTrees returns the names of every tree of connection id.
func (a *Accessor) ListTrees(id string) ([]string, error) {
	var names []string
	err := a.withStore(id, func(h *connection.Handle) (err error) {
		names, err = ListTrees(h.Store())
		return err
	})
	return names, err
}

func (a *Accessor) withStore(id string, fn func(h *connection.Handle) error) error {
	h, err := a.registry.Acquire(id)
	if err != nil {
		return err
	}
	defer h.Release() //nolint:errcheck // close failures are logged by the registry

	return fn(h)
}
