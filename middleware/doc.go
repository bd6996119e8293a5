// Package middleware provides the continuous-authentication gate as a
// standard net/http middleware.
//
// JA4Guard re-authenticates every protected request against the JA4
// fingerprint bound to its session at login: a mismatch destroys the
// session and denies the request (fail-closed), while drift in secondary
// attributes (IP, user-agent) is recorded to the audit store without
// blocking (fail-open). The audit store is advisory; the gate keeps
// working, minus audit, when it is down.
//
//	guard := middleware.JA4Guard(transport, repo)
//	server := &http.Server{Handler: guard(mux)}
package middleware
