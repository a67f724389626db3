package store

import "encoding/binary"

// DefaultTree is the tree used when a caller does not name one.
const DefaultTree = "default"

// Prefix constants for the key spaces inside one store
const (
	prefixTreeCatalog byte = iota + 1
	prefixTreeData
)

// makeKey creates a key from a prefix and a suffix
func makeKey(prefix byte, suffix []byte) []byte {
	key := make([]byte, 1+len(suffix))
	key[0] = prefix
	copy(key[1:], suffix)
	return key
}

// catalogKey is the key recording that a tree exists.
func catalogKey(name string) []byte {
	return makeKey(prefixTreeCatalog, []byte(name))
}

// treePrefix is the prefix of every data key of the named tree. The name is
// length-prefixed, so no tree prefix is a prefix of another tree's.
func treePrefix(name string) []byte {
	key := make([]byte, 0, 1+binary.MaxVarintLen64+len(name))
	key = append(key, prefixTreeData)
	key = binary.AppendUvarint(key, uint64(len(name)))
	return append(key, name...)
}

// prefixEnd returns the smallest key greater than every key starting with
// prefix, or nil when no such key exists.
func prefixEnd(prefix []byte) []byte {
	end := make([]byte, len(prefix))
	copy(end, prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] != 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

func join(prefix, suffix []byte) []byte {
	key := make([]byte, len(prefix)+len(suffix))
	copy(key, prefix)
	copy(key[len(prefix):], suffix)
	return key
}
