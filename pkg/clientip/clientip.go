package clientip

import (
	"net"
	"net/http"
	"strings"
)

const (
	headerForwardedFor = "X-Forwarded-For"
	headerRealIP       = "X-Real-IP"

	// unknownAgent is reported when the client sent no User-Agent header.
	unknownAgent = "unknown-agent"
)

// GetIP extracts the real client IP address from the request.
//
// Headers are checked in priority order: X-Forwarded-For (leftmost entry),
// then X-Real-IP, falling back to the transport-layer peer address.
// Candidate values are validated with net.ParseIP and normalized; the
// special address 0.0.0.0 is rejected. If no header yields a valid IP,
// the host part of RemoteAddr is returned as-is.
func GetIP(r *http.Request) string {
	if xff := r.Header.Get(headerForwardedFor); xff != "" {
		// X-Forwarded-For may contain "client, proxy1, proxy2"; the
		// leftmost entry is the original client.
		first, _, _ := strings.Cut(xff, ",")
		if ip := normalizeIP(first); ip != "" {
			return ip
		}
	}

	if real := r.Header.Get(headerRealIP); real != "" {
		if ip := normalizeIP(real); ip != "" {
			return ip
		}
	}

	return remoteHost(r.RemoteAddr)
}

// UserAgent returns the request's User-Agent header, or "unknown-agent"
// when the client did not send one.
func UserAgent(r *http.Request) string {
	if ua := r.UserAgent(); ua != "" {
		return ua
	}
	return unknownAgent
}

// normalizeIP validates and normalizes a candidate IP string.
// Returns "" for invalid addresses and for 0.0.0.0.
func normalizeIP(raw string) string {
	candidate := strings.TrimSpace(raw)
	if candidate == "" {
		return ""
	}

	ip := net.ParseIP(candidate)
	if ip == nil || ip.IsUnspecified() {
		return ""
	}
	return ip.String()
}

// remoteHost strips the port from a RemoteAddr value.
// RemoteAddr without a port (common in tests) is returned unchanged.
func remoteHost(remoteAddr string) string {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	if ip := net.ParseIP(host); ip != nil {
		return ip.String()
	}
	return host
}
