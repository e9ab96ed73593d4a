package storage

import "errors"

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
	// ErrStale means a compare-and-swap lost against a concurrent writer.
	ErrStale = errors.New("record changed concurrently")
)
