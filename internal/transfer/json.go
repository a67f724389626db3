package transfer

import (
	"bytes"
	"encoding/json"
	"io"
	"strconv"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/internal/query"
	"github.com/eigerco/kvscope/internal/valuetype"
)

// Bytes marshals to a JSON array of integers, one per byte, instead of the
// base64 string encoding/json uses for []byte.
type Bytes []byte

func (b Bytes) MarshalJSON() ([]byte, error) {
	buf := make([]byte, 0, 2+4*len(b))
	buf = append(buf, '[')
	for i, c := range b {
		if i > 0 {
			buf = append(buf, ',')
		}
		buf = strconv.AppendUint(buf, uint64(c), 10)
	}
	return append(buf, ']'), nil
}

func (b *Bytes) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return errNullBytes
	}
	var ints []int
	if err := json.Unmarshal(data, &ints); err != nil {
		return err
	}
	out := make([]byte, len(ints))
	for i, n := range ints {
		if n < 0 || n > 255 {
			return &byteRangeError{index: i, value: n}
		}
		out[i] = byte(n)
	}
	*b = out
	return nil
}

type jsonEntry struct {
	Key       Bytes               `json:"key"`
	Value     Bytes               `json:"value"`
	ValueType valuetype.ValueType `json:"value_type"`
}

type jsonRecord struct {
	Key       *Bytes               `json:"key"`
	Value     *Bytes               `json:"value"`
	ValueType *valuetype.ValueType `json:"value_type"`
}

func encodeJSON(w io.Writer, entries []query.KeyValue) error {
	out := make([]jsonEntry, len(entries))
	for i, e := range entries {
		out[i] = jsonEntry{Key: e.Key, Value: e.Value, ValueType: e.ValueType}
	}
	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// decodeJSON reads the array written by encodeJSON. The whole document is
// parsed before the first entry is emitted.
func decodeJSON(r io.Reader, emit emitFunc) error {
	var records []jsonRecord
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return kverr.Mark(err, kverr.ErrParse, "decode json")
	}
	for i, rec := range records {
		switch {
		case rec.Key == nil:
			return kverr.New(kverr.ErrParse, "json entry %d: missing key", i)
		case rec.Value == nil:
			return kverr.New(kverr.ErrParse, "json entry %d: missing value", i)
		case rec.ValueType == nil:
			return kverr.New(kverr.ErrParse, "json entry %d: missing value_type", i)
		}
		if err := emit(*rec.Key, *rec.Value); err != nil {
			return err
		}
	}
	return nil
}
