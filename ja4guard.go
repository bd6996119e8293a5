// Package ja4guard binds HTTP sessions to the TLS/client fingerprint
// captured at login and continuously re-authenticates them: every
// protected request is validated against the bound fingerprint, a
// mismatch destroys the session (fail-closed), and drift in secondary
// client attributes (IP, user-agent) is recorded to an advisory audit
// store without blocking (fail-open).
//
// Install wires the whole SDK into a host *http.ServeMux:
//
//	mux := http.NewServeMux()
//	mux.HandleFunc("GET /api/data", dataHandler)
//
//	store := sessionsecurity.NewRedisStore(client)
//	repo := sessionsecurity.NewRepository(store)
//	creds, _ := handler.NewDemoCredentials()
//
//	protected := ja4guard.Install(mux, repo, creds)
//	http.ListenAndServe(":8080", protected)
//
// The audit store is optional: with a nil store the guard still enforces
// fingerprint binding, it just records nothing.
package ja4guard

import (
	"net/http"

	"github.com/ja4guard/ja4guard/core/session"
	"github.com/ja4guard/ja4guard/core/sessionsecurity"
	"github.com/ja4guard/ja4guard/handler"
	"github.com/ja4guard/ja4guard/middleware"
)

// Install registers the login, profile and logout endpoints on the mux
// and returns the mux wrapped with the validation gate. The returned
// handler is what the host server should serve.
func Install(mux *http.ServeMux, repo *sessionsecurity.Repository, creds handler.CredentialStore, opts ...Option) http.Handler {
	o := applyOptions(opts...)

	var managerOpts []session.ManagerOption
	if o.SessionTTL > 0 {
		managerOpts = append(managerOpts, session.WithTTL(o.SessionTTL))
	}
	manager := session.NewManager(session.NewMemoryStore(), managerOpts...)
	transport := session.NewCookieTransport(manager, o.CookieName)

	var handlerOpts []handler.Option
	if o.Logger != nil {
		handlerOpts = append(handlerOpts, handler.WithLogger(o.Logger))
	}
	endpoints := handler.New(transport, repo, creds, handlerOpts...)

	mux.HandleFunc("POST "+o.LoginPath, endpoints.Login())
	mux.HandleFunc("GET "+o.ProfilePath, endpoints.Profile())
	mux.HandleFunc("POST "+o.LogoutPath, endpoints.Logout())

	guard := middleware.JA4GuardWithConfig(middleware.JA4GuardConfig{
		Transport:        transport,
		Repository:       repo,
		LoginPath:        o.LoginPath,
		ProtectedPattern: o.ProtectedPattern,
		Logger:           o.Logger,
	})
	return guard(mux)
}
