// Package valuetype guesses what a stored value looks like so it can be
// displayed sensibly. The guess is never persisted and never authoritative.
package valuetype

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

// ValueType is a display hint for a raw value.
type ValueType uint8

const (
	String ValueType = iota
	Number
	Boolean
	Json
	Binary
)

var names = [...]string{
	String:  "String",
	Number:  "Number",
	Boolean: "Boolean",
	Json:    "Json",
	Binary:  "Binary",
}

// Classify inspects value and returns its display hint. The checks run in a
// fixed order: invalid UTF-8 is Binary, a leading '{' or '[' (after leading
// whitespace) is Json even when the rest is malformed, then the exact
// literals true/false, then decimal float syntax.
func Classify(value []byte) ValueType {
	if !utf8.Valid(value) {
		return Binary
	}
	s := string(value)

	trimmed := strings.TrimLeftFunc(s, unicode.IsSpace)
	if strings.HasPrefix(trimmed, "{") || strings.HasPrefix(trimmed, "[") {
		return Json
	}

	if s == "true" || s == "false" {
		return Boolean
	}

	if isNumber(s) {
		return Number
	}

	return String
}

// isNumber reports whether s is decimal float syntax. Magnitudes beyond
// float64 still count: the syntax is numeric even though the value
// saturates. Go literal forms that strconv also accepts, digit separators
// and hexadecimal mantissas, are not numbers here.
func isNumber(s string) bool {
	if strings.ContainsRune(s, '_') || hasHexPrefix(s) {
		return false
	}
	_, err := strconv.ParseFloat(s, 64)
	return err == nil || errors.Is(err, strconv.ErrRange)
}

func hasHexPrefix(s string) bool {
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		s = s[1:]
	}
	return len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X')
}

func (t ValueType) String() string {
	if int(t) < len(names) {
		return names[t]
	}
	return fmt.Sprintf("ValueType(%d)", uint8(t))
}

// Parse returns the ValueType with the given name.
func Parse(name string) (ValueType, error) {
	for i, n := range names {
		if n == name {
			return ValueType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown value type %q", name)
}

func (t ValueType) MarshalText() ([]byte, error) {
	if int(t) >= len(names) {
		return nil, fmt.Errorf("unknown value type %d", uint8(t))
	}
	return []byte(names[t]), nil
}

func (t *ValueType) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(text))
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
