package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/storechecker/storechecker/pkg/utils"
)

// FileStore keeps each document in its own file under a directory
type FileStore struct {
	dir string
	mu  sync.RWMutex
}

// NewFileStore creates a new file store rooted at dir
func NewFileStore(dir string) (*FileStore, error) {
	if err := utils.EnsureDir(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &FileStore{dir: dir}, nil
}

func (fs *FileStore) path(key string) (string, error) {
	clean := filepath.Clean(filepath.FromSlash(key))
	if key == "" || filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("invalid document key %q", key)
	}
	return filepath.Join(fs.dir, clean), nil
}

// Get reads the document stored under key
func (fs *FileStore) Get(ctx context.Context, key string) ([]byte, error) {
	p, err := fs.path(key)
	if err != nil {
		return nil, err
	}

	fs.mu.RLock()
	defer fs.mu.RUnlock()

	data, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", p, err)
	}
	return data, nil
}

// Put atomically replaces the document stored under key
func (fs *FileStore) Put(ctx context.Context, key string, data []byte) error {
	p, err := fs.path(key)
	if err != nil {
		return err
	}

	fs.mu.Lock()
	defer fs.mu.Unlock()

	return utils.AtomicWriteFile(p, data, 0600)
}

// Close is a no-op for file storage
func (fs *FileStore) Close() error {
	return nil
}
