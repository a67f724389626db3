// Package transfer moves whole key-value sets between trees and text
// interchange formats.
//
// Only JSON keeps raw bytes exactly. CSV, XML and YAML carry keys and values
// as text: bytes that are not valid UTF-8 are replaced with U+FFFD on export,
// so binary data does not survive a round trip through them. CSV import
// also turns "\r\n" inside a field into "\n", so text values holding
// carriage returns come back changed. XML can be exported but not imported.
package transfer

import (
	"io"
	"strings"

	"github.com/eigerco/kvscope/internal/kverr"
	"github.com/eigerco/kvscope/internal/query"
)

// Format is an interchange format token.
type Format string

const (
	JSON Format = "json"
	CSV  Format = "csv"
	XML  Format = "xml"
	YAML Format = "yaml"
)

// emitFunc receives each decoded entry.
type emitFunc func(key, value []byte) error

type encodeFunc func(w io.Writer, entries []query.KeyValue) error

type decodeFunc func(r io.Reader, emit emitFunc) error

type codec struct {
	encode encodeFunc
	// decode is nil for export-only formats
	decode decodeFunc
}

var codecs = map[Format]codec{
	JSON: {encode: encodeJSON, decode: decodeJSON},
	CSV:  {encode: encodeCSV, decode: decodeCSV},
	XML:  {encode: encodeXML},
	YAML: {encode: encodeYAML, decode: decodeYAML},
}

// ParseFormat returns the format named by token, ignoring case.
func ParseFormat(token string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(token)))
	if _, ok := codecs[f]; !ok {
		return "", kverr.New(kverr.ErrUnsupportedFormat, "format %q", token)
	}
	return f, nil
}

// Formats returns every supported format.
func Formats() []Format {
	return []Format{JSON, CSV, XML, YAML}
}

// CanImport reports whether entries can be read back from f.
func (f Format) CanImport() bool {
	return codecs[f].decode != nil
}

func (f Format) encoder() (encodeFunc, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, kverr.New(kverr.ErrUnsupportedFormat, "format %q", string(f))
	}
	return c.encode, nil
}

func (f Format) decoder() (decodeFunc, error) {
	c, ok := codecs[f]
	if !ok {
		return nil, kverr.New(kverr.ErrUnsupportedFormat, "format %q", string(f))
	}
	if c.decode == nil {
		return nil, kverr.New(kverr.ErrUnsupportedFormat, "import from %s is not supported", string(f))
	}
	return c.decode, nil
}
