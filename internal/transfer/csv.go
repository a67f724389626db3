package transfer

import (
	"encoding/csv"
	"errors"
	"io"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/internal/query"
)

var csvHeader = []string{"key", "value", "value_type"}

func encodeCSV(w io.Writer, entries []query.KeyValue) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := cw.Write([]string{lossyString(e.Key), lossyString(e.Value), e.ValueType.String()}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// decodeCSV skips the header row, then takes column one as key and column
// two as value. Rows with fewer than two columns are skipped.
func decodeCSV(r io.Reader, emit emitFunc) error {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	if _, err := cr.Read(); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return kverr.Mark(err, kverr.ErrParse, "decode csv header")
	}

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return kverr.Mark(err, kverr.ErrParse, "decode csv")
		}
		if len(record) < 2 {
			continue
		}
		if err := emit([]byte(record[0]), []byte(record[1])); err != nil {
			return err
		}
	}
}
