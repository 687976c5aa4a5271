package storage

import (
	"context"
	"sync"
)

// MemoryBackend is a process-local backend. Nothing survives a restart.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
}

// NewMemory creates an empty in-memory backend.
func NewMemory() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	v, ok := b.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

func (b *MemoryBackend) Set(_ context.Context, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	v := make([]byte, len(value))
	copy(v, value)
	b.values[key] = v
	return nil
}

func (b *MemoryBackend) Close() error {
	return nil
}
