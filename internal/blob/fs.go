package blob

import (
	"fmt"
	"os"
	"path/filepath"
)

// FSStore keeps artifact bytes as flat files under a base directory, one
// file per key.
type FSStore struct {
	basePath string
}

func NewFSStore(basePath string) (*FSStore, error) {
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("create base directory: %w", err)
	}

	return &FSStore{basePath: basePath}, nil
}

func (s *FSStore) path(key string) string {
	return filepath.Join(s.basePath, key)
}

func (s *FSStore) Write(key string, data []byte) error {
	if err := os.WriteFile(s.path(key), data, 0o644); err != nil {
		return fmt.Errorf("write content: %w", err)
	}

	return nil
}

func (s *FSStore) Read(key string) ([]byte, error) {
	data, err := os.ReadFile(s.path(key))

	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("read content: %w", err)
	}

	return data, nil
}

func (s *FSStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.path(key))

	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}

		return false, fmt.Errorf("stat content: %w", err)
	}

	return true, nil
}
