package storage

import (
	"context"
	"fmt"
	"regexp"
)

// Backend kinds accepted by Open
const (
	KindFile   = "file"
	KindSQLite = "sqlite"
)

// Backend is a durable medium holding named byte values.
type Backend interface {
	// Get returns the value stored under key and whether it exists
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value stored under key
	Set(ctx context.Context, key string, value []byte) error

	// Close releases the medium
	Close() error
}

var keyPattern = regexp.MustCompile(`^[A-Za-z0-9_.-]+$`)

// ValidateKey rejects keys that cannot be used as file names or row keys.
func ValidateKey(key string) error {
	if !keyPattern.MatchString(key) {
		return fmt.Errorf("invalid storage key %q", key)
	}
	return nil
}

// Open creates the backend of the given kind rooted at dir.
func Open(ctx context.Context, kind, dir string) (Backend, error) {
	switch kind {
	case "", KindFile:
		b := NewLocal(dir)
		if err := b.EnsureDirectoryExists(); err != nil {
			return nil, err
		}
		return b, nil
	case KindSQLite:
		return OpenSQLite(ctx, dir)
	default:
		return nil, fmt.Errorf("unknown storage backend: %s (must be file or sqlite)", kind)
	}
}
