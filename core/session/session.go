package session

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Session is the host-local session object: the per-session attribute bag
// the validation gate reads its authorization inputs from. The bound
// fingerprint captured at login lives here, never in the external store.
type Session struct {
	// ID is the stable session identifier, also used as the external
	// store key for the session's advisory security record.
	ID uuid.UUID

	// Token is the cryptographically secure cookie value (32 bytes,
	// base64url without padding).
	Token string

	// User is the authenticated username bound at login.
	User string

	// Fingerprint is the JA4 fingerprint bound at login. All subsequent
	// requests on this session are compared against it by exact string
	// equality.
	Fingerprint string

	IP        string
	UserAgent string

	CreatedAt time.Time
	// ExpiresAt implements the inactivity timeout: every validated
	// request slides it forward.
	ExpiresAt time.Time
}

// New creates an authenticated session with a freshly generated ID and
// token, expiring after the inactivity TTL.
func New(user, fingerprint, ip, userAgent string, ttl time.Duration) (Session, error) {
	token, err := generateToken()
	if err != nil {
		return Session{}, errors.Join(ErrTokenGeneration, err)
	}

	now := time.Now()
	return Session{
		ID:          uuid.New(),
		Token:       token,
		User:        user,
		Fingerprint: fingerprint,
		IP:          ip,
		UserAgent:   userAgent,
		CreatedAt:   now,
		ExpiresAt:   now.Add(ttl),
	}, nil
}

// IsExpired returns true if the inactivity window has elapsed.
func (s Session) IsExpired() bool {
	return time.Now().After(s.ExpiresAt)
}

// HasFingerprint reports whether a fingerprint is bound to the session.
// Sessions created before binding existed, or tampered to strip the
// attribute, fail this check and must be invalidated.
func (s Session) HasFingerprint() bool {
	return s.Fingerprint != ""
}

// generateToken creates a cryptographically secure random token using
// 32 bytes (256 bits) encoded as base64 URL-safe string without padding.
func generateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
