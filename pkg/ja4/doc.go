// Package ja4 derives a JA4-style client fingerprint from an HTTP request.
//
// A JA4 fingerprint is a compact hash-based summary of TLS client-handshake
// characteristics, used to recognize "the same client" across requests.
// It narrows, not proves, client identity: no cryptographic guarantee is
// implied.
//
// When a TLS-terminating proxy computes the real JA4 value, it forwards it
// in one of the recognized headers (X-JA4-Fingerprint, X-JA4, X-Client-JA4,
// Ja4-Fingerprint) and Extract returns that value verbatim. Without such a
// header, Extract falls back to a deterministic SHA-256 digest of the
// connection's TLS protocol, cipher suite, channel binding, client IP and
// User-Agent.
//
//	fp := ja4.Extract(r)            // header value or fallback digest
//	fp, ok := ja4.FromHeader(r)     // header value only
package ja4
