package handler

import (
	"io"
	"log/slog"

	"github.com/ja4guard/ja4guard/core/logger"
	"github.com/ja4guard/ja4guard/core/session"
	"github.com/ja4guard/ja4guard/core/sessionsecurity"
)

// Handlers bundles the session lifecycle endpoints: login, logout and
// profile. They are thin JSON translation around the session manager and
// the security repository.
type Handlers struct {
	transport *session.CookieTransport
	repo      *sessionsecurity.Repository
	creds     CredentialStore
	log       *slog.Logger
}

// Option is a functional option for configuring Handlers.
type Option func(*Handlers)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(h *Handlers) {
		if log != nil {
			h.log = log
		}
	}
}

// New creates the endpoint handlers.
func New(transport *session.CookieTransport, repo *sessionsecurity.Repository, creds CredentialStore, opts ...Option) *Handlers {
	h := &Handlers{
		transport: transport,
		repo:      repo,
		creds:     creds,
		log:       slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h.withComponent()
}

func (h *Handlers) withComponent() *Handlers {
	h.log = h.log.With(logger.Component("ja4guard.handlers"))
	return h
}
