package valuetype

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name  string
		value []byte
		want  ValueType
	}{
		{"boolean_true", []byte("true"), Boolean},
		{"boolean_false", []byte("false"), Boolean},
		{"boolean_is_exact", []byte("True"), String},
		{"boolean_not_trimmed", []byte(" true"), String},
		{"float", []byte("42.5"), Number},
		{"integer", []byte("-7"), Number},
		{"exponent", []byte("1e10"), Number},
		{"out_of_range", []byte("1e400"), Number},
		{"infinity", []byte("inf"), Number},
		{"number_with_space", []byte("42 "), String},
		{"digit_separators", []byte("1_000"), String},
		{"hex_float", []byte("0x1p4"), String},
		{"signed_hex_float", []byte("-0X1P4"), String},
		{"leading_zero", []byte("007"), Number},
		{"signed", []byte("+1.5"), Number},
		{"json_object", []byte(`{"a":1}`), Json},
		{"json_array", []byte("[1,2]"), Json},
		{"json_leading_whitespace", []byte("\n\t {\"a\":1}"), Json},
		{"json_malformed_still_json", []byte("{not json"), Json},
		{"json_wins_over_number", []byte("[42"), Json},
		{"binary", []byte{0xFF, 0xFE}, Binary},
		{"binary_truncated_rune", []byte{'a', 0xE2, 0x82}, Binary},
		{"string", []byte("hello"), String},
		{"empty", []byte{}, String},
		{"unicode", []byte("héllo wörld"), String},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Classify(tc.value))
		})
	}
}

func TestValueType_Text(t *testing.T) {
	for _, vt := range []ValueType{String, Number, Boolean, Json, Binary} {
		text, err := vt.MarshalText()
		require.NoError(t, err)
		assert.Equal(t, vt.String(), string(text))

		var parsed ValueType
		require.NoError(t, parsed.UnmarshalText(text))
		assert.Equal(t, vt, parsed)
	}

	_, err := Parse("Float")
	assert.Error(t, err)
	assert.Equal(t, "ValueType(9)", ValueType(9).String())
}

func TestValueType_JSON(t *testing.T) {
	out, err := json.Marshal(struct {
		T ValueType `json:"value_type"`
	}{Json})
	require.NoError(t, err)
	assert.JSONEq(t, `{"value_type":"Json"}`, string(out))
}
