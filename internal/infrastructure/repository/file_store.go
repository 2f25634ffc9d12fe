package repository

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"cameroonmark/internal/domain/storage"
)

type fileStore struct {
	basePath string
}

// NewFileStore creates a store that keeps one file per key under basePath
func NewFileStore(basePath string) (storage.Store, error) {
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create storage directory: %w", err)
	}
	return &fileStore{basePath: basePath}, nil
}

// sanitizeKey prevents directory traversal through key names
func (r *fileStore) sanitizeKey(key string) (string, error) {
	cleaned := filepath.Base(filepath.Clean("/" + key))
	if cleaned == "/" || cleaned == "." || cleaned != key || strings.HasPrefix(cleaned, ".") {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return cleaned, nil
}

func (r *fileStore) path(key string) (string, error) {
	name, err := r.sanitizeKey(key)
	if err != nil {
		return "", err
	}
	return filepath.Join(r.basePath, name+".json"), nil
}

func (r *fileStore) Get(_ context.Context, key string) (string, error) {
	p, err := r.path(key)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(p)
	if err != nil {
		if os.IsNotExist(err) {
			return "", storage.ErrNotFound
		}
		return "", err
	}
	return string(data), nil
}

// Set writes through a temp file and rename so readers never see a partial value
func (r *fileStore) Set(_ context.Context, key, value string) error {
	p, err := r.path(key)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(r.basePath, ".tmp-*")
	if err != nil {
		return err
	}
	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return err
	}
	return os.Rename(tmp.Name(), p)
}

func (r *fileStore) Remove(_ context.Context, keys ...string) error {
	for _, key := range keys {
		p, err := r.path(key)
		if err != nil {
			return err
		}
		if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
			return err
		}
	}
	return nil
}

func (r *fileStore) Close() error {
	return nil
}
