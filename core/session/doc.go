// Package session implements the host-local session: the per-session
// attribute bag holding the authenticated user and the fingerprint bound
// at login, with an inactivity timeout and explicit invalidation.
//
// The package splits into a value type (Session), a persistence
// interface (Store) with an in-memory implementation, a lifecycle
// Manager, and a cookie-based transport. Authorization decisions read
// only this local state; the external security record in
// core/sessionsecurity is advisory and never consulted to allow or deny
// a request.
package session
