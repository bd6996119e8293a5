package session

import (
	"context"
	"errors"
	"time"
)

// defaultTTL is the fixed inactivity timeout the login flow binds to
// every new session.
const defaultTTL = 900 * time.Second

// Manager handles the local session lifecycle: creation at login,
// retrieval and inactivity extension per request, and invalidation.
type Manager struct {
	store Store
	ttl   time.Duration
}

// ManagerOption is a functional option for configuring the manager.
type ManagerOption func(*Manager)

// WithTTL overrides the inactivity timeout.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(m *Manager) {
		if ttl > 0 {
			m.ttl = ttl
		}
	}
}

// NewManager creates a session manager over the given store.
func NewManager(store Store, opts ...ManagerOption) *Manager {
	m := &Manager{
		store: store,
		ttl:   defaultTTL,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Create builds and saves an authenticated session with the bound
// fingerprint and the manager's inactivity timeout.
func (m *Manager) Create(ctx context.Context, user, fingerprint, ip, userAgent string) (Session, error) {
	sess, err := New(user, fingerprint, ip, userAgent, m.ttl)
	if err != nil {
		return Session{}, err
	}
	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// GetByToken retrieves a live session by cookie token. Expired sessions
// are removed from the store and reported as ErrExpired.
func (m *Manager) GetByToken(ctx context.Context, token string) (Session, error) {
	sess, err := m.store.GetByToken(ctx, token)
	if err != nil {
		return Session{}, err
	}

	if sess.IsExpired() {
		if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
			return Session{}, err
		}
		return Session{}, ErrExpired
	}
	return sess, nil
}

// Touch slides the inactivity window forward and saves the session.
// The returned session carries the new expiry.
func (m *Manager) Touch(ctx context.Context, sess Session) (Session, error) {
	sess.ExpiresAt = time.Now().Add(m.ttl)
	if err := m.store.Save(ctx, sess); err != nil {
		return Session{}, err
	}
	return sess, nil
}

// Invalidate destroys the session. Invalidating an already-absent
// session is not an error.
func (m *Manager) Invalidate(ctx context.Context, sess Session) error {
	if err := m.store.Delete(ctx, sess.ID); err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	return nil
}

// TTL returns the inactivity timeout.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}
