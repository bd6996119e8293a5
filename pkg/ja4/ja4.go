package ja4

import (
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"net/http"
	"strings"

	"github.com/ja4guard/ja4guard/pkg/clientip"
)

// headerCandidates lists the request headers that may carry a JA4
// fingerprint computed by an upstream TLS terminator, in priority order.
// The first present, non-empty value wins.
var headerCandidates = [...]string{
	"X-JA4-Fingerprint",
	"X-JA4",
	"X-Client-JA4",
	"Ja4-Fingerprint",
}

const (
	unknownCipher = "unknown-cipher"
	noTLSSession  = "no-session"
)

// FromHeader returns the JA4 fingerprint declared by an upstream proxy,
// scanning the candidate headers in priority order. The value is trimmed;
// empty values are skipped. The second return reports whether any header
// carried a fingerprint.
func FromHeader(r *http.Request) (string, bool) {
	for _, name := range headerCandidates {
		if v := strings.TrimSpace(r.Header.Get(name)); v != "" {
			return v, true
		}
	}
	return "", false
}

// Extract derives the request's fingerprint. A fingerprint supplied via
// one of the candidate headers is returned verbatim; otherwise a
// deterministic fallback is computed from TLS and network metadata.
//
// The function is pure given its inputs: identical headers, TLS state,
// resolved client IP and User-Agent always yield the identical string.
func Extract(r *http.Request) string {
	if provided, ok := FromHeader(r); ok {
		return provided
	}
	return fallbackFingerprint(r)
}

// fallbackFingerprint hashes the canonical connection string with SHA-256
// and returns the lowercase hex digest.
func fallbackFingerprint(r *http.Request) string {
	sum := sha256.Sum256([]byte(canonicalString(r)))
	return hex.EncodeToString(sum[:])
}

// canonicalString builds the tagged, pipe-joined representation of the
// connection signals the fallback fingerprint is derived from:
//
//	proto=<TLS protocol or plain request protocol>
//	cipher=<negotiated cipher suite or "unknown-cipher">
//	tlsId=<lowercase hex of the TLS channel binding, or "no-session">
//	addr=<resolved client IP>
//	ua=<User-Agent or "unknown-agent">
//
// Explicit tags plus the pipe delimiter prevent two different field
// combinations from canonicalizing to the same string.
func canonicalString(r *http.Request) string {
	proto := r.Proto
	cipher := unknownCipher
	tlsID := noTLSSession

	if r.TLS != nil {
		proto = protocolName(r.TLS.Version)
		cipher = tls.CipherSuiteName(r.TLS.CipherSuite)
		// crypto/tls does not expose the TLS session id; the tls-unique
		// channel binding is the closest per-connection identifier. It is
		// empty on TLS 1.3, which degrades to "no-session".
		if len(r.TLS.TLSUnique) > 0 {
			tlsID = hex.EncodeToString(r.TLS.TLSUnique)
		}
	}

	return strings.Join([]string{
		"proto=" + proto,
		"cipher=" + cipher,
		"tlsId=" + tlsID,
		"addr=" + clientip.GetIP(r),
		"ua=" + clientip.UserAgent(r),
	}, "|")
}

// protocolName maps a TLS version constant to its conventional label.
func protocolName(version uint16) string {
	switch version {
	case tls.VersionTLS13:
		return "TLSv1.3"
	case tls.VersionTLS12:
		return "TLSv1.2"
	case tls.VersionTLS11:
		return "TLSv1.1"
	case tls.VersionTLS10:
		return "TLSv1.0"
	default:
		return tls.VersionName(version)
	}
}
