package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// DefaultUploadDir is used when no upload directory is configured.
const DefaultUploadDir = "uploads"

// LocalStore keeps files in a directory on local disk.
type LocalStore struct {
	dir string
}

// NewLocalStore returns a store rooted at dir. The directory is created on
// first write.
func NewLocalStore(dir string) *LocalStore {
	if dir == "" {
		dir = DefaultUploadDir
	}
	return &LocalStore{dir: dir}
}

// Dir returns the root directory.
func (s *LocalStore) Dir() string {
	return s.dir
}

func (s *LocalStore) Save(ctx context.Context, filename string, r io.Reader) (string, error) {
	key, err := SecureFilename(filename)
	if err != nil {
		return "", &StorageError{Op: "save", Key: filename, Message: "invalid filename", Cause: err}
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	if err := os.MkdirAll(s.dir, 0755); err != nil {
		return "", &StorageError{Op: "save", Key: key, Message: "failed to create upload directory", Cause: err}
	}

	// Write to a temp file first so readers never see a partial upload.
	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", &StorageError{Op: "save", Key: key, Message: "failed to create file", Cause: err}
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, r); err != nil {
		tmp.Close()
		return "", &StorageError{Op: "save", Key: key, Message: "failed to write file", Cause: err}
	}
	if err := tmp.Close(); err != nil {
		return "", &StorageError{Op: "save", Key: key, Message: "failed to write file", Cause: err}
	}
	if err := os.Rename(tmp.Name(), s.Location(key)); err != nil {
		return "", &StorageError{Op: "save", Key: key, Message: "failed to move file into place", Cause: err}
	}
	return key, nil
}

func (s *LocalStore) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := checkKey("open", key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.Location(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &StorageError{Op: "open", Key: key, Message: "file not found", Cause: ErrNotFound}
		}
		return nil, &StorageError{Op: "open", Key: key, Message: "failed to open file", Cause: err}
	}
	return f, nil
}

func (s *LocalStore) Delete(_ context.Context, key string) error {
	if err := checkKey("delete", key); err != nil {
		return err
	}
	if err := os.Remove(s.Location(key)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return &StorageError{Op: "delete", Key: key, Message: "failed to delete file", Cause: err}
	}
	return nil
}

func (s *LocalStore) Location(key string) string {
	return filepath.Join(s.dir, key)
}
