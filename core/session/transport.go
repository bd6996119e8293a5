package session

import (
	"context"
	"net/http"
	"time"
)

// DefaultCookieName carries the session token between requests.
const DefaultCookieName = "ja4guard_session"

// CookieTransport moves the session token over an HttpOnly cookie.
type CookieTransport struct {
	manager *Manager
	name    string
}

// NewCookieTransport creates a cookie transport for the manager.
// An empty name falls back to DefaultCookieName.
func NewCookieTransport(manager *Manager, name string) *CookieTransport {
	if name == "" {
		name = DefaultCookieName
	}
	return &CookieTransport{manager: manager, name: name}
}

// Load resolves the request's session from its cookie.
// Returns ErrNotFound when no cookie is present or the token is unknown,
// ErrExpired when the inactivity window has elapsed.
func (t *CookieTransport) Load(r *http.Request) (Session, error) {
	cookie, err := r.Cookie(t.name)
	if err != nil || cookie.Value == "" {
		return Session{}, ErrNotFound
	}
	return t.manager.GetByToken(r.Context(), cookie.Value)
}

// Bind writes the session cookie for a freshly created session.
func (t *CookieTransport) Bind(w http.ResponseWriter, sess Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    sess.Token,
		Path:     "/",
		MaxAge:   int(time.Until(sess.ExpiresAt).Seconds()),
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Invalidate destroys the session and expires the cookie.
func (t *CookieTransport) Invalidate(ctx context.Context, w http.ResponseWriter, sess Session) error {
	http.SetCookie(w, &http.Cookie{
		Name:     t.name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   true,
		SameSite: http.SameSiteLaxMode,
	})
	return t.manager.Invalidate(ctx, sess)
}

// Manager exposes the underlying session manager.
func (t *CookieTransport) Manager() *Manager {
	return t.manager
}
