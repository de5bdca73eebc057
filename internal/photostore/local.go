package photostore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps enrollment photos in a directory on local disk.
// Suitable for development and single-node deployments.
type LocalStore struct {
	dir string
}

var _ PhotoStore = (*LocalStore)(nil)

func NewLocalStore(dir string) (*LocalStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create photo dir: %w", err)
	}
	return &LocalStore{dir: dir}, nil
}

func (s *LocalStore) Save(ctx context.Context, image []byte, name string) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(name))
	if err := os.WriteFile(path, image, 0o600); err != nil {
		return "", fmt.Errorf("write photo %s: %w", name, err)
	}
	return path, nil
}

func (s *LocalStore) Delete(ctx context.Context, path string) error {
	if path == "" {
		return nil
	}

	// Refuse to delete outside the store directory.
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("resolve photo path: %w", err)
	}
	absDir, err := filepath.Abs(s.dir)
	if err != nil {
		return fmt.Errorf("resolve photo dir: %w", err)
	}
	if !strings.HasPrefix(abs, absDir+string(filepath.Separator)) {
		return fmt.Errorf("photo path %s outside store directory", path)
	}

	if err := os.Remove(abs); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove photo %s: %w", path, err)
	}
	return nil
}
