// Package storage persists uploaded files (avatars, multimedia) on disk.
// The database stores only the generated file key.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FileStore writes and reads files below a single root directory.
type FileStore struct {
	root string
}

// NewFileStore ensures the root directory exists.
func NewFileStore(root string) (*FileStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage root: %w", err)
	}
	return &FileStore{root: root}, nil
}

// Save streams r into a new file and returns its key.
func (s *FileStore) Save(r io.Reader) (key string, size int64, err error) {
	key = uuid.NewString()
	f, err := os.Create(s.path(key))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create file: %w", err)
	}
	defer f.Close()

	size, err = io.Copy(f, r)
	if err != nil {
		os.Remove(s.path(key))
		return "", 0, fmt.Errorf("failed to write file: %w", err)
	}
	return key, size, nil
}

// Open returns a reader for the stored file.
func (s *FileStore) Open(key string) (io.ReadCloser, error) {
	if !validKey(key) {
		return nil, os.ErrNotExist
	}
	return os.Open(s.path(key))
}

// Delete removes the stored file. Deleting a missing file is not an error.
func (s *FileStore) Delete(key string) error {
	if !validKey(key) {
		return nil
	}
	err := os.Remove(s.path(key))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.root, key)
}

// validKey rejects anything that could escape the root directory.
func validKey(key string) bool {
	return key != "" && !strings.ContainsAny(key, "/\\") && key != "." && key != ".."
}
