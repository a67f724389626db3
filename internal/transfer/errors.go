package transfer

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

var errNullBytes = errors.New("byte array is null")

type byteRangeError struct {
	index int
	value int
}

func (e *byteRangeError) Error() string {
	return fmt.Sprintf("byte %d out of range: %d", e.index, e.value)
}
