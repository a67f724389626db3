package db

// KVStore represents an ordered key-value storage interface providing basic
// operations for data manipulation and bounded iteration. Keys are compared
// as raw bytes.
type KVStore interface {
	Writer
	Get(key []byte) ([]byte, error)
	Delete(key []byte) error
	// Swap stores value under key and returns the value it replaced, nil if
	// the key was absent. The read and the write happen under the store's
	// write lock.
	Swap(key, value []byte) ([]byte, error)
	// Take deletes key and returns the value it held, nil if it was absent.
	Take(key []byte) ([]byte, error)
	NewBatch() Batch
	// NewIterator iterates [start, end) in ascending order. A nil bound is open.
	NewIterator(start, end []byte) (Iterator, error)
	// NewReverseIterator iterates [start, end) in descending order.
	NewReverseIterator(start, end []byte) (Iterator, error)
	// DiskUsage approximates the bytes used by the store on disk.
	DiskUsage() uint64
	Close() error
}

type Writer interface {
	Put(key []byte, value []byte) error
}

// Batch represents an atomic batch of operations.
// All operations in a batch are performed atomically.
type Batch interface {
	Writer
	Delete(key []byte) error
	DeleteRange(start, end []byte) error
	Len() int
	Commit() error
	Close() error
}

// Iterator provides sequential access over a range of key-value pairs.
// Iterators must be closed after use.
type Iterator interface {
	Next() bool
	Key() []byte
	Value() ([]byte, error)
	Valid() bool
	Close() error
}
