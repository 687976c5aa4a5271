package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// LocalBackend stores each key as a JSON file under baseDir
type LocalBackend struct {
	baseDir string
}

// NewLocal creates a new local file backend
func NewLocal(baseDir string) *LocalBackend {
	return &LocalBackend{
		baseDir: baseDir,
	}
}

// Get reads the file for key. A missing file is reported as absent, not as an error.
func (b *LocalBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	if err := ValidateKey(key); err != nil {
		return nil, false, err
	}

	data, err := os.ReadFile(b.path(key))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("failed to read file: %w", err)
	}

	return data, true, nil
}

// Set writes the value to a temp file and renames it over the key's file,
// so readers never observe a partial value.
func (b *LocalBackend) Set(_ context.Context, key string, value []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	if err := b.EnsureDirectoryExists(); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(b.baseDir, "."+key+"-*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() { _ = os.Remove(tmpPath) }()

	if _, err := tmp.Write(value); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to write file: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("failed to sync file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close file: %w", err)
	}

	if err := os.Rename(tmpPath, b.path(key)); err != nil {
		return fmt.Errorf("failed to replace file: %w", err)
	}

	return nil
}

// Close is a no-op for the file backend.
func (b *LocalBackend) Close() error {
	return nil
}

// GetStoragePath returns the full path to the storage directory
func (b *LocalBackend) GetStoragePath() string {
	return b.baseDir
}

// EnsureDirectoryExists creates the storage directory if it doesn't exist
func (b *LocalBackend) EnsureDirectoryExists() error {
	if err := os.MkdirAll(b.baseDir, 0755); err != nil {
		return fmt.Errorf("failed to create storage directory: %w", err)
	}
	return nil
}

func (b *LocalBackend) path(key string) string {
	return filepath.Join(b.baseDir, key+".json")
}
