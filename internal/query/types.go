package query

import "github.com/eigerco/kvscope/internal/valuetype"

// KeyValue is one entry of a tree, with its value type guessed on read.
type KeyValue struct {
	Key       []byte              `json:"key"`
	Value     []byte              `json:"value"`
	ValueType valuetype.ValueType `json:"value_type"`
}

// NewKeyValue builds an entry and classifies its value.
func NewKeyValue(key, value []byte) KeyValue {
	return KeyValue{Key: key, Value: value, ValueType: valuetype.Classify(value)}
}

// RangeQuery selects keys with From <= key < To. Nil bounds are open. Reverse
// walks the same range in descending order. A nil or negative Limit returns
// every entry of the range.
type RangeQuery struct {
	From    []byte `json:"from,omitempty"`
	To      []byte `json:"to,omitempty"`
	Limit   *int   `json:"limit,omitempty"`
	Reverse bool   `json:"reverse"`
}

// PrefixQuery selects keys starting with Prefix, in ascending order.
type PrefixQuery struct {
	Prefix []byte `json:"prefix"`
	Limit  *int   `json:"limit,omitempty"`
}

// Result is one page of a query. TotalCount is the size of the whole tree,
// not the number of entries matching the query.
type Result struct {
	Entries    []KeyValue `json:"entries"`
	TotalCount int        `json:"total_count"`
	HasMore    bool       `json:"has_more"`
}

// Limit is a helper for building queries.
func Limit(n int) *int {
	return &n
}
