// Package query implements point lookups and bounded, ordered iteration
// over a tree.
package query

import (
	"github.com/eigerco/kvscope/internal/store"
)

// Get looks key up. It returns nil when the key is absent.
func Get(tree *store.Tree, key []byte) (*KeyValue, error) {
	value, found, err := tree.Get(key)
	if err != nil || !found {
		return nil, err
	}
	kv := NewKeyValue(key, value)
	return &kv, nil
}

// Set stores value under key and returns the previous value, or nil.
func Set(tree *store.Tree, key, value []byte) ([]byte, error) {
	return tree.Swap(key, value)
}

// Remove deletes key and returns the removed value, or nil.
func Remove(tree *store.Tree, key []byte) ([]byte, error) {
	return tree.Take(key)
}

// Range returns the entries of q's range, at most q.Limit of them.
func Range(tree *store.Tree, q RangeQuery) (Result, error) {
	p := newPager(q.Limit)
	if err := tree.Scan(q.From, q.To, q.Reverse, p.visit); err != nil {
		return Result{}, err
	}
	return p.result(tree)
}

// Prefix returns the entries whose key starts with q.Prefix, at most
// q.Limit of them.
func Prefix(tree *store.Tree, q PrefixQuery) (Result, error) {
	p := newPager(q.Limit)
	if err := tree.ScanPrefix(q.Prefix, p.visit); err != nil {
		return Result{}, err
	}
	return p.result(tree)
}

// pager collects entries until the limit is reached. hasMore is only set
// when an entry beyond the limit was actually seen.
type pager struct {
	limit   *int
	entries []KeyValue
	hasMore bool
}

// newPager treats a negative limit like no limit.
func newPager(limit *int) *pager {
	if limit != nil && *limit < 0 {
		limit = nil
	}
	return &pager{limit: limit, entries: []KeyValue{}}
}

func (p *pager) visit(key, value []byte) (bool, error) {
	if p.limit != nil && len(p.entries) >= *p.limit {
		p.hasMore = true
		return false, nil
	}
	p.entries = append(p.entries, NewKeyValue(key, value))
	return true, nil
}

func (p *pager) result(tree *store.Tree) (Result, error) {
	total, err := tree.Len()
	if err != nil {
		return Result{}, err
	}
	return Result{Entries: p.entries, TotalCount: total, HasMore: p.hasMore}, nil
}
