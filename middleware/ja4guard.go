package middleware

import (
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/ja4guard/ja4guard/core/logger"
	"github.com/ja4guard/ja4guard/core/session"
	"github.com/ja4guard/ja4guard/core/sessionsecurity"
	"github.com/ja4guard/ja4guard/pkg/clientip"
	"github.com/ja4guard/ja4guard/pkg/ja4"
)

const (
	// ChallengeHeader signals the client that fingerprint re-verification
	// is required.
	ChallengeHeader = "X-Session-Challenge"
	// ChallengeValue is the action the client must perform.
	ChallengeValue = "VERIFY_JA4"
)

// JA4GuardConfig configures the continuous-authentication middleware.
type JA4GuardConfig struct {
	// Skip defines a function to skip middleware execution for specific requests
	Skip func(r *http.Request) bool
	// Transport resolves and invalidates the host-local session (required)
	Transport *session.CookieTransport
	// Repository records security state in the advisory store (required;
	// a disabled repository is valid)
	Repository *sessionsecurity.Repository
	// LoginPath is exempt from validation so clients can authenticate
	// (default: "/api/login"). A trailing "/*" makes it a prefix match.
	LoginPath string
	// ProtectedPattern selects the paths the guard validates
	// (default: "/api/*"). Exact match, or prefix match with a trailing "/*".
	ProtectedPattern string
	// Logger for structured logging (default: slog with io.Discard)
	Logger *slog.Logger
}

// JA4Guard creates the continuous-authentication middleware with default
// paths. Every protected request is re-authenticated against the
// fingerprint bound to its session at login.
func JA4Guard(transport *session.CookieTransport, repo *sessionsecurity.Repository) func(http.Handler) http.Handler {
	return JA4GuardWithConfig(JA4GuardConfig{
		Transport:  transport,
		Repository: repo,
	})
}

// JA4GuardWithConfig creates the continuous-authentication middleware
// with custom configuration.
//
// Per request the gate evaluates, in order, short-circuiting on the
// first terminal outcome:
//
//  1. bypass for unprotected paths and the login path
//  2. 401 when no local session exists
//  3. 401 + invalidation when the session has no bound fingerprint
//  4. 403 + invalidation + JA4_MISMATCH audit event when the computed
//     fingerprint differs from the bound one (fail-closed)
//  5. audit-only drift check of IP and user-agent against the stored
//     record, then a record refresh (fail-open)
//  6. forward downstream
//
// Mismatch destroys the session because it signals a likely stolen
// cookie; drift is only observed because benign causes (mobile network
// handoff, browser update) are common.
func JA4GuardWithConfig(cfg JA4GuardConfig) func(http.Handler) http.Handler {
	if cfg.LoginPath == "" {
		cfg.LoginPath = "/api/login"
	}
	if cfg.ProtectedPattern == "" {
		cfg.ProtectedPattern = "/api/*"
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	log := cfg.Logger.With(logger.Component("ja4guard"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if cfg.Skip != nil && cfg.Skip(r) {
				next.ServeHTTP(w, r)
				return
			}

			if !matchPath(r.URL.Path, cfg.ProtectedPattern) || matchPath(r.URL.Path, cfg.LoginPath) {
				next.ServeHTTP(w, r)
				return
			}

			sess, err := cfg.Transport.Load(r)
			if err != nil {
				log.Debug("rejecting request without session", logger.Path(r.URL.Path))
				writeSecurityJSON(w, http.StatusUnauthorized, "No active session", map[string]any{
					"action": "LOGIN",
				})
				return
			}

			ctx := r.Context()

			if !sess.HasFingerprint() {
				log.Warn("session missing fingerprint binding", logger.SessionID(sess.ID.String()))
				if err := cfg.Transport.Invalidate(ctx, w, sess); err != nil {
					log.Warn("failed to invalidate session", logger.SessionID(sess.ID.String()), logger.Error(err))
				}
				writeSecurityJSON(w, http.StatusUnauthorized, "Fingerprint not bound to session", map[string]any{
					"action": "LOGIN",
				})
				return
			}

			currentFingerprint := ja4.Extract(r)
			currentIP := clientip.GetIP(r)
			currentUserAgent := clientip.UserAgent(r)

			record, recordFound := cfg.Repository.Fetch(ctx, sess.ID.String())

			if currentFingerprint != sess.Fingerprint {
				log.Warn("fingerprint mismatch",
					logger.SessionID(sess.ID.String()),
					logger.ClientIP(currentIP),
					slog.String("expected", sess.Fingerprint),
					slog.String("received", currentFingerprint),
				)
				var stored *sessionsecurity.SessionRecord
				if recordFound {
					stored = &record
				}
				cfg.Repository.RecordMismatch(ctx, stored, currentFingerprint, currentIP, currentUserAgent)
				if err := cfg.Transport.Invalidate(ctx, w, sess); err != nil {
					log.Warn("failed to invalidate session", logger.SessionID(sess.ID.String()), logger.Error(err))
				}
				w.Header().Set(ChallengeHeader, ChallengeValue)
				writeSecurityJSON(w, http.StatusForbidden, "JA4 verification required", map[string]any{
					"error":  "Fingerprint mismatch",
					"action": ChallengeValue,
				})
				return
			}

			// Fingerprint matched. Drift in secondary attributes is audited
			// per dimension but never blocks the request; the stored record
			// is advisory and its absence simply skips the checks.
			if recordFound {
				if record.DifferentIP(currentIP) {
					log.Warn("client IP changed during session",
						logger.SessionID(sess.ID.String()), logger.ClientIP(currentIP))
					cfg.Repository.RecordAttributeChange(ctx, record,
						sessionsecurity.EventClientAttributeChange,
						"Client IP changed during session",
						map[string]string{
							"previousIp": valueOrUnknown(record.IPAddress),
							"currentIp":  currentIP,
						},
						currentIP, currentUserAgent)
				}
				if record.DifferentUserAgent(currentUserAgent) {
					log.Warn("user-agent changed during session",
						logger.SessionID(sess.ID.String()), logger.UserAgent(currentUserAgent))
					cfg.Repository.RecordAttributeChange(ctx, record,
						sessionsecurity.EventClientAttributeChange,
						"User-Agent changed during session",
						map[string]string{
							"previousUserAgent": valueOrUnknown(record.UserAgent),
							"currentUserAgent":  currentUserAgent,
						},
						currentIP, currentUserAgent)
				}
				cfg.Repository.Refresh(ctx, record, currentIP, currentUserAgent)
			}

			if _, err := cfg.Transport.Manager().Touch(ctx, sess); err != nil {
				log.Warn("failed to extend session", logger.SessionID(sess.ID.String()), logger.Error(err))
			}

			next.ServeHTTP(w, r)
		})
	}
}

// matchPath matches a request path against a configured pattern: exact
// match, or prefix match when the pattern ends in the wildcard marker
// "/*" (the marker keeps its leading slash in the prefix, so "/api/*"
// matches "/api/users" but not "/apiusers").
func matchPath(requestPath, pattern string) bool {
	if strings.HasSuffix(pattern, "/*") {
		prefix := pattern[:len(pattern)-1]
		return strings.HasPrefix(requestPath, prefix)
	}
	return requestPath == pattern
}

func valueOrUnknown(v string) string {
	if v == "" {
		return "unknown"
	}
	return v
}
