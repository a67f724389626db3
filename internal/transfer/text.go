package transfer

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// lossyString projects raw bytes onto UTF-8 text, replacing invalid
// sequences with U+FFFD.
func lossyString(b []byte) string {
	if utf8.Valid(b) {
		return string(b)
	}
	decoded, err := unicode.UTF8.NewDecoder().Bytes(b)
	if err != nil {
		return strings.ToValidUTF8(string(b), string(utf8.RuneError))
	}
	return string(decoded)
}
