package ja4guard

import (
	"log/slog"
	"time"
)

// Options configures the SDK installation.
type Options struct {
	// LoginPath serves authentication and is exempt from validation
	// (default: "/api/login").
	LoginPath string
	// ProfilePath serves the session view (default: "/api/profile").
	ProfilePath string
	// LogoutPath terminates the session (default: "/api/logout").
	LogoutPath string
	// ProtectedPattern selects the paths the guard validates
	// (default: "/api/*"). Exact match, or prefix match with a
	// trailing "/*".
	ProtectedPattern string
	// CookieName carries the session token
	// (default: session.DefaultCookieName).
	CookieName string
	// SessionTTL is the local session inactivity timeout
	// (default: 900s).
	SessionTTL time.Duration
	// Logger for structured logging (default: discard).
	Logger *slog.Logger
}

// Option is a functional option for configuring the installation.
type Option func(*Options)

// WithLoginPath overrides the login path.
func WithLoginPath(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.LoginPath = path
		}
	}
}

// WithProfilePath overrides the profile path.
func WithProfilePath(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.ProfilePath = path
		}
	}
}

// WithLogoutPath overrides the logout path.
func WithLogoutPath(path string) Option {
	return func(o *Options) {
		if path != "" {
			o.LogoutPath = path
		}
	}
}

// WithProtectedPattern overrides the protected path pattern.
func WithProtectedPattern(pattern string) Option {
	return func(o *Options) {
		if pattern != "" {
			o.ProtectedPattern = pattern
		}
	}
}

// WithCookieName overrides the session cookie name.
func WithCookieName(name string) Option {
	return func(o *Options) {
		if name != "" {
			o.CookieName = name
		}
	}
}

// WithSessionTTL overrides the local session inactivity timeout.
func WithSessionTTL(ttl time.Duration) Option {
	return func(o *Options) {
		if ttl > 0 {
			o.SessionTTL = ttl
		}
	}
}

// WithLogger sets the structured logger used by the gate and handlers.
func WithLogger(log *slog.Logger) Option {
	return func(o *Options) {
		if log != nil {
			o.Logger = log
		}
	}
}

func defaultOptions() *Options {
	return &Options{
		LoginPath:        "/api/login",
		ProfilePath:      "/api/profile",
		LogoutPath:       "/api/logout",
		ProtectedPattern: "/api/*",
	}
}

func applyOptions(opts ...Option) *Options {
	o := defaultOptions()
	for _, opt := range opts {
		opt(o)
	}
	return o
}
