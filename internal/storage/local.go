// Package storage is the disk-backed document store used when Drive is not
// configured. Files are keyed by a relative path string persisted on the
// document record.
package storage

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

type LocalStore struct {
	root string
}

func NewLocalStore(root string) *LocalStore {
	return &LocalStore{root: root}
}

// Save writes content under dir with a uuid-prefixed name so repeated uploads
// of the same file never collide. Returns the relative path to persist.
func (s *LocalStore) Save(dir, filename string, content io.Reader) (string, error) {
	relPath := filepath.Join(dir, uuid.NewString()+"-"+filepath.Base(filename))
	fullPath := filepath.Join(s.root, relPath)

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	out, err := os.Create(fullPath)
	if err != nil {
		return "", fmt.Errorf("failed to create file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, content); err != nil {
		return "", fmt.Errorf("failed to write file: %w", err)
	}

	return relPath, nil
}

// Delete removes a stored file by its relative path. Missing files are not an
// error; the record may outlive the file.
func (s *LocalStore) Delete(relPath string) error {
	err := os.Remove(filepath.Join(s.root, relPath))

	if err != nil && !os.IsNotExist(err) {
		return err
	}

	return nil
}

// Path resolves a relative path to its absolute location on disk.
func (s *LocalStore) Path(relPath string) string {
	return filepath.Join(s.root, relPath)
}
