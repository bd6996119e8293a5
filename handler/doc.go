// Package handler implements the session lifecycle endpoints: login
// (credential check, fingerprint binding, security record creation),
// logout (termination audit and session destruction) and profile
// (local session view merged with the advisory stored record).
package handler
