package storage

import (
	"context"
	"encoding/json"
	"log/slog"
)

// Store reads and writes JSON values through a Backend. It never returns
// storage failures to callers: reads degrade to a default, writes are logged.
type Store struct {
	backend Backend
	logger  *slog.Logger
}

// NewStore wraps a backend. A nil logger falls back to slog.Default().
func NewStore(backend Backend, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{backend: backend, logger: logger}
}

// Backend returns the underlying medium.
func (s *Store) Backend() Backend {
	return s.backend
}

// Read returns the value stored under key, or defaultValue when it is absent,
// unreadable or not decodable into T.
func Read[T any](ctx context.Context, s *Store, key string, defaultValue T) T {
	data, ok, err := s.backend.Get(ctx, key)
	if err != nil {
		s.logger.Warn("storage read failed, using default", "key", key, "error", err)
		return defaultValue
	}
	if !ok {
		return defaultValue
	}

	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		s.logger.Warn("stored value is malformed, using default", "key", key, "error", err)
		return defaultValue
	}
	return v
}

// Write serializes value and stores it under key. It reports whether the
// write reached the medium; failures are logged, never returned.
func (s *Store) Write(ctx context.Context, key string, value any) bool {
	data, err := json.Marshal(value)
	if err != nil {
		s.logger.Error("storage encode failed", "key", key, "error", err)
		return false
	}
	if err := s.backend.Set(ctx, key, data); err != nil {
		s.logger.Error("storage write failed, keeping in-memory state", "key", key, "error", err)
		return false
	}
	s.logger.Debug("storage write", "key", key, "bytes", len(data))
	return true
}
