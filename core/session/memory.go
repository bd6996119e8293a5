package session

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

// MemoryStore is an in-process Store implementation. Local sessions are
// host-local by contract, so a mutex-guarded map is the whole story.
type MemoryStore struct {
	mu        sync.RWMutex
	byToken   map[string]Session
	tokenByID map[uuid.UUID]string
}

// NewMemoryStore creates an empty in-memory session store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken:   make(map[string]Session),
		tokenByID: make(map[uuid.UUID]string),
	}
}

// GetByToken returns the session for the token, or ErrNotFound.
func (s *MemoryStore) GetByToken(_ context.Context, token string) (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sess, ok := s.byToken[token]
	if !ok {
		return Session{}, ErrNotFound
	}
	return sess, nil
}

// Save upserts the session, replacing any previous token mapping for the
// same session ID.
func (s *MemoryStore) Save(_ context.Context, sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if prev, ok := s.tokenByID[sess.ID]; ok && prev != sess.Token {
		delete(s.byToken, prev)
	}
	s.byToken[sess.Token] = sess
	s.tokenByID[sess.ID] = sess.Token
	return nil
}

// Delete removes the session by ID. Deleting an absent session is a no-op.
func (s *MemoryStore) Delete(_ context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if token, ok := s.tokenByID[id]; ok {
		delete(s.byToken, token)
		delete(s.tokenByID, id)
	}
	return nil
}

// DeleteExpired removes all expired sessions and returns the count.
func (s *MemoryStore) DeleteExpired(_ context.Context) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var removed int64
	for token, sess := range s.byToken {
		if sess.IsExpired() {
			delete(s.byToken, token)
			delete(s.tokenByID, sess.ID)
			removed++
		}
	}
	return removed, nil
}
