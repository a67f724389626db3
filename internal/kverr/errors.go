// Package kverr holds the error taxonomy shared by every kvscope component.
// Failures are marked with one of the sentinels so callers can branch with
// errors.Is from github.com/cockroachdb/errors while the message keeps the
// underlying cause.
package kverr

import "github.com/cockroachdb/errors"

var (
	// ErrOpen is returned when a store cannot be opened or created: disk,
	// permissions, corruption or a lock held by someone else.
	ErrOpen = errors.New("open store")

	// ErrNotFound is returned for an unknown connection id.
	ErrNotFound = errors.New("connection not found")

	// ErrTree is returned when a store operation fails after the tree was
	// resolved.
	ErrTree = errors.New("tree operation failed")

	// ErrUnsupportedFormat is returned for a format token outside the
	// supported set, or a format that cannot be read back.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrParse is returned for malformed import content.
	ErrParse = errors.New("malformed import data")

	// ErrIO is returned when reading or writing an import/export file fails.
	ErrIO = errors.New("file i/o")
)

// Mark prefixes err with a formatted message and marks it with the sentinel
// kind, so errors.Is(err, kind) holds while err stays reachable as the cause.
// It returns nil for a nil err.
func Mark(err error, kind error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return errors.Mark(errors.Wrapf(err, format, args...), kind)
}

// New creates an error of the given kind without an underlying cause. The
// message reads "<detail>: <kind>".
func New(kind error, format string, args ...interface{}) error {
	return errors.Wrapf(kind, format, args...)
}
