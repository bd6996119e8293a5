package sessionsecurity

import (
	"context"
	"sync"
	"time"
)

// MemoryStore is an in-process Store implementation for tests and
// single-node setups without an external store. It honors TTLs lazily:
// expired keys are dropped on read.
type MemoryStore struct {
	mu    sync.Mutex
	kv    map[string]memoryEntry
	lists map[string][][]byte
}

type memoryEntry struct {
	value     []byte
	expiresAt time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		kv:    make(map[string]memoryEntry),
		lists: make(map[string][][]byte),
	}
}

// Set upserts the value with a TTL.
func (s *MemoryStore) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry := memoryEntry{value: append([]byte(nil), value...)}
	if ttl > 0 {
		entry.expiresAt = time.Now().Add(ttl)
	}
	s.kv[key] = entry
	return nil
}

// Get reads the value at key, expiring it lazily.
func (s *MemoryStore) Get(_ context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.kv[key]
	if !ok {
		return nil, ErrNotFound
	}
	if !entry.expiresAt.IsZero() && time.Now().After(entry.expiresAt) {
		delete(s.kv, key)
		return nil, ErrNotFound
	}
	return append([]byte(nil), entry.value...), nil
}

// Delete removes the key.
func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.kv, key)
	return nil
}

// PushCapped prepends the value and trims the list to limit entries.
func (s *MemoryStore) PushCapped(_ context.Context, key string, value []byte, limit int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := append([][]byte{append([]byte(nil), value...)}, s.lists[key]...)
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	s.lists[key] = list
	return nil
}

// ListRange reads up to limit entries from the list at key, newest first.
func (s *MemoryStore) ListRange(_ context.Context, key string, limit int64) ([][]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.lists[key]
	if int64(len(list)) > limit {
		list = list[:limit]
	}
	out := make([][]byte, len(list))
	for i, v := range list {
		out[i] = append([]byte(nil), v...)
	}
	return out, nil
}

// List returns a copy of the list at key, newest first.
func (s *MemoryStore) List(key string) [][]byte {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([][]byte, len(s.lists[key]))
	for i, v := range s.lists[key] {
		out[i] = append([]byte(nil), v...)
	}
	return out
}
