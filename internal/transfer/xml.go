package transfer

import (
	"encoding/xml"
	"io"

	"github.com/eigerco/kvscope/internal/query"
)

type xmlExport struct {
	XMLName xml.Name   `xml:"entries"`
	Entries []xmlEntry `xml:"entry"`
}

type xmlEntry struct {
	Key       string `xml:"key"`
	Value     string `xml:"value"`
	ValueType string `xml:"value_type"`
}

func encodeXML(w io.Writer, entries []query.KeyValue) error {
	doc := xmlExport{Entries: make([]xmlEntry, len(entries))}
	for i, e := range entries {
		doc.Entries[i] = xmlEntry{
			Key:       lossyString(e.Key),
			Value:     lossyString(e.Value),
			ValueType: e.ValueType.String(),
		}
	}

	if _, err := io.WriteString(w, xml.Header); err != nil {
		return err
	}
	enc := xml.NewEncoder(w)
	enc.Indent("", "  ")
	if err := enc.Encode(doc); err != nil {
		return err
	}
	return enc.Close()
}
