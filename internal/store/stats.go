package store

import (
	"io/fs"
	"path/filepath"
	"time"

	"github.com/eigerco/kvscope/internal/connection"
	"github.com/eigerco/kvscope/internal/kverr"
)

// Stats is an approximate snapshot of a store. It is not consistent with
// concurrent writers.
type Stats struct {
	SizeOnDisk   uint64    `json:"size_on_disk"`
	KeyCount     int       `json:"key_count"`
	TreeCount    int       `json:"tree_count"`
	LastModified time.Time `json:"last_modified"`
}

// Stats reports size, default tree key count, tree count and last write
// time of connection id.
func (a *Accessor) Stats(id string) (Stats, error) {
	info, ok := a.registry.Get(id)
	if !ok {
		return Stats{}, kverr.New(kverr.ErrNotFound, "connection %s", id)
	}

	var stats Stats
	err := a.withStore(id, func(h *connection.Handle) error {
		names, err := ListTrees(h.Store())
		if err != nil {
			return err
		}
		stats.TreeCount = len(names)

		// Counted without touching the catalog, so reading stats does
		// not create the default tree.
		tree := &Tree{name: DefaultTree, prefix: treePrefix(DefaultTree), kv: h.Store()}
		if stats.KeyCount, err = tree.Len(); err != nil {
			return err
		}

		stats.SizeOnDisk = h.Store().DiskUsage()
		stats.LastModified = lastModified(info.Path)
		return nil
	})
	return stats, err
}

// lastModified returns the newest modification time of any file under dir,
// or now when nothing there can be inspected, as for in-memory stores.
func lastModified(dir string) time.Time {
	var newest time.Time
	_ = filepath.WalkDir(dir, func(_ string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if fi, err := d.Info(); err == nil && fi.ModTime().After(newest) {
			newest = fi.ModTime()
		}
		return nil
	})
	if newest.IsZero() {
		return time.Now().UTC()
	}
	return newest.UTC()
}
