// Package storage keeps uploaded CVs, job descriptions and rendered
// documents on local disk or in an S3-compatible bucket.
package storage

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when a key does not exist in the store.
	ErrNotFound = errors.New("file not found")
	// ErrInvalidFilename is returned when a filename sanitizes to nothing.
	ErrInvalidFilename = errors.New("invalid filename")
)

// StorageError represents a failed store operation
type StorageError struct {
	Op      string
	Key     string
	Message string
	Cause   error
}

func (e *StorageError) Error() string {
	msg := fmt.Sprintf("storage %s %q: %s", e.Op, e.Key, e.Message)
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}
