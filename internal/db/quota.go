package db

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// DefaultQuotaBytes matches the 10 MiB local storage quota of the browser host.
const DefaultQuotaBytes = 10 * 1024 * 1024

// QuotaStore caps the total size (key plus value bytes) of everything written
// through it. Keys already in a persistent backend count as zero until they
// are seeded, read or written.
type QuotaStore struct {
	inner KeyValueStore
	limit int

	mu    sync.Mutex
	sizes map[string]int
	total int
}

func NewQuotaStore(inner KeyValueStore, limit int) *QuotaStore {
	return &QuotaStore{
		inner: inner,
		limit: limit,
		sizes: make(map[string]int),
	}
}

func (s *QuotaStore) Get(ctx context.Context, key string) ([]byte, error) {
	v, err := s.inner.Get(ctx, key)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.track(key, len(key)+len(v))
	s.mu.Unlock()
	return v, nil
}

func (s *QuotaStore) Set(ctx context.Context, key string, value []byte) error {
	size := len(key) + len(value)

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.limit > 0 && s.total-s.sizes[key]+size > s.limit {
		return fmt.Errorf("%w: writing %d bytes to %s would exceed %d", ErrQuotaExceeded, size, key, s.limit)
	}

	if err := s.inner.Set(ctx, key, value); err != nil {
		return err
	}
	s.track(key, size)
	return nil
}

func (s *QuotaStore) Remove(ctx context.Context, key string) error {
	if err := s.inner.Remove(ctx, key); err != nil {
		return err
	}

	s.mu.Lock()
	s.total -= s.sizes[key]
	delete(s.sizes, key)
	s.mu.Unlock()
	return nil
}

// Seed accounts for values the backend already holds under keys.
func (s *QuotaStore) Seed(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		v, err := s.inner.Get(ctx, key)
		if errors.Is(err, ErrNotFound) {
			continue
		}
		if err != nil {
			return fmt.Errorf("seed quota for %s: %w", key, err)
		}

		s.mu.Lock()
		s.track(key, len(key)+len(v))
		s.mu.Unlock()
	}
	return nil
}

// Used returns the bytes currently accounted for.
func (s *QuotaStore) Used() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.total
}

func (s *QuotaStore) track(key string, size int) {
	s.total += size - s.sizes[key]
	s.sizes[key] = size
}
