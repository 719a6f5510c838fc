package store

import (
	"context"
	"time"

	cache "github.com/patrickmn/go-cache"
)

// MemoryKeyStore keeps published keys in process memory with a TTL
type MemoryKeyStore struct {
	cache *cache.Cache
	ttl   time.Duration
}

// NewMemoryKeyStore creates an in-memory key store. A non-positive ttl keeps
// keys for the life of the process.
func NewMemoryKeyStore(ttl time.Duration) *MemoryKeyStore {
	if ttl <= 0 {
		ttl = cache.NoExpiration
	}
	cleanup := 10 * time.Minute
	if ttl > 0 && ttl < cleanup {
		cleanup = ttl
	}
	return &MemoryKeyStore{
		cache: cache.New(ttl, cleanup),
		ttl:   ttl,
	}
}

// Seen reports whether key was marked and has not expired
func (s *MemoryKeyStore) Seen(_ context.Context, key string) (bool, error) {
	_, found := s.cache.Get(key)
	return found, nil
}

// Mark records key
func (s *MemoryKeyStore) Mark(_ context.Context, key string) error {
	s.cache.Set(key, struct{}{}, s.ttl)
	return nil
}

// Len returns the number of live keys
func (s *MemoryKeyStore) Len() int {
	return s.cache.ItemCount()
}

// Close is a no-op
func (s *MemoryKeyStore) Close() error {
	return nil
}
