package kverr

import (
	"io/fs"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
)

func TestMark(t *testing.T) {
	err := Mark(fs.ErrPermission, ErrOpen, "open %s", "/data/db")

	assert.True(t, errors.Is(err, ErrOpen))
	assert.True(t, errors.Is(err, fs.ErrPermission))
	assert.False(t, errors.Is(err, ErrTree))
	assert.Equal(t, "open /data/db: permission denied", err.Error())
}

func TestMark_Nested(t *testing.T) {
	inner := Mark(fs.ErrClosed, ErrIO, "read import file")
	err := Mark(inner, ErrParse, "decode json")

	assert.True(t, errors.Is(err, ErrParse))
	assert.True(t, errors.Is(err, ErrIO))
	assert.True(t, errors.Is(err, fs.ErrClosed))
	assert.False(t, errors.Is(err, ErrOpen))
}

func TestMark_Nil(t *testing.T) {
	assert.NoError(t, Mark(nil, ErrIO, "write"))
}

func TestSentinelsAreDistinct(t *testing.T) {
	all := []error{ErrOpen, ErrNotFound, ErrTree, ErrUnsupportedFormat, ErrParse, ErrIO}
	for i, a := range all {
		for j, b := range all {
			assert.Equal(t, i == j, errors.Is(a, b), "%v vs %v", a, b)
		}
	}
}

func TestNew(t *testing.T) {
	err := New(ErrUnsupportedFormat, "format %q", "toml")
	assert.True(t, errors.Is(err, ErrUnsupportedFormat))
	assert.False(t, errors.Is(err, ErrParse))
	assert.Equal(t, `format "toml": unsupported format`, err.Error())
}
