package pebble

import (
	"github.com/cockroachdb/pebble"
	"github.com/cockroachdb/pebble/vfs"
	"github.com/rs/zerolog"
)

// Options configures a KVStore.
type Options struct {
	// CacheSize is the size in bytes of the block cache.
	CacheSize int64
	// MemTableSize is the size in bytes of a single memtable.
	MemTableSize uint64
	// MemTableStopWritesThreshold is the number of queued memtables at which
	// writes are stalled.
	MemTableStopWritesThreshold int
	// InMemory keeps every file in memory; nothing touches the path on disk.
	InMemory bool
	// Logger receives pebble's own log output. Nil discards it.
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used when a connection is opened
// without explicit configuration.
func DefaultOptions() Options {
	return Options{
		CacheSize:                   64 * 1024 * 1024, // 64MB
		MemTableSize:                32 * 1024 * 1024, // 32MB
		MemTableStopWritesThreshold: 4,
	}
}

func (o Options) pebbleOptions(cache *pebble.Cache) *pebble.Options {
	opts := &pebble.Options{
		Cache:                       cache,
		MemTableSize:                o.MemTableSize,
		MemTableStopWritesThreshold: o.MemTableStopWritesThreshold,
	}
	if o.InMemory {
		opts.FS = vfs.NewMem()
	}
	if o.Logger != nil {
		opts.Logger = logger{log: o.Logger}
	} else {
		nop := zerolog.Nop()
		opts.Logger = logger{log: &nop}
	}
	return opts
}
