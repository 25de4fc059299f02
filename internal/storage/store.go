package storage

import (
	"context"
	"io"
)

// Store saves and retrieves files by key. Keys are sanitized file names.
type Store interface {
	// Save writes r under the sanitized form of filename and returns the key.
	// An existing file with the same key is replaced.
	Save(ctx context.Context, filename string, r io.Reader) (string, error)
	// Open returns the content stored under key, or ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Location describes where key lives (a file path or an s3:// URL).
	Location(key string) string
}

// ReadAll opens key and reads it fully.
func ReadAll(ctx context.Context, store Store, key string) ([]byte, error) {
	rc, err := store.Open(ctx, key)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, &StorageError{Op: "read", Key: key, Message: "failed to read content", Cause: err}
	}
	return data, nil
}

// checkKey rejects keys that are not already in sanitized form.
func checkKey(op, key string) error {
	clean, err := SecureFilename(key)
	if err != nil || clean != key {
		return &StorageError{Op: op, Key: key, Message: "invalid key", Cause: ErrInvalidFilename}
	}
	return nil
}
