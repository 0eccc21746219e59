package store

import (
	"errors"
	"fmt"
)

// ErrUnsupportedVersion indicates a document written by a newer client.
var ErrUnsupportedVersion = errors.New("unsupported storage version")

// StorageError reports a failure to read or write a persisted document.
// It is fatal: callers must not fall back to an empty model.
type StorageError struct {
	Path string
	Op   string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}

func storageError(op, path string, err error) error {
	return &StorageError{Path: path, Op: op, Err: err}
}
