package ja4_test

import (
	"crypto/sha256"
	"crypto/tls"
	"encoding/hex"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja4guard/ja4guard/pkg/ja4"
)

func sha256Hex(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}

func TestFromHeader(t *testing.T) {
	t.Parallel()

	t.Run("returns first candidate header verbatim", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-JA4-Fingerprint", "t13d1516h2_abc")
		req.Header.Set("X-JA4", "other-value")

		fp, ok := ja4.FromHeader(req)
		require.True(t, ok)
		assert.Equal(t, "t13d1516h2_abc", fp)
	})

	t.Run("respects candidate priority order", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("Ja4-Fingerprint", "lowest-priority")
		req.Header.Set("X-Client-JA4", "higher-priority")

		fp, ok := ja4.FromHeader(req)
		require.True(t, ok)
		assert.Equal(t, "higher-priority", fp)
	})

	t.Run("trims whitespace and skips empty values", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-JA4-Fingerprint", "   ")
		req.Header.Set("X-JA4", "  t13d_trimmed  ")

		fp, ok := ja4.FromHeader(req)
		require.True(t, ok)
		assert.Equal(t, "t13d_trimmed", fp)
	})

	t.Run("reports absence", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)

		fp, ok := ja4.FromHeader(req)
		assert.False(t, ok)
		assert.Empty(t, fp)
	})
}

func TestExtract(t *testing.T) {
	t.Parallel()

	t.Run("header fingerprint wins over TLS metadata", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set("X-JA4-Fingerprint", "t13d1516h2_abc")
		req.TLS = &tls.ConnectionState{
			Version:     tls.VersionTLS13,
			CipherSuite: tls.TLS_AES_256_GCM_SHA384,
		}

		assert.Equal(t, "t13d1516h2_abc", ja4.Extract(req))
	})

	t.Run("fallback hashes the canonical TLS string", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:40000"
		req.Header.Set("User-Agent", "curl/8.0")
		req.TLS = &tls.ConnectionState{
			Version:     tls.VersionTLS13,
			CipherSuite: tls.TLS_AES_128_GCM_SHA256,
			TLSUnique:   []byte{0x01, 0x02},
		}

		want := sha256Hex("proto=TLSv1.3|cipher=TLS_AES_128_GCM_SHA256|tlsId=0102|addr=10.0.0.5|ua=curl/8.0")
		assert.Equal(t, want, ja4.Extract(req))
	})

	t.Run("fallback without TLS uses plain protocol and placeholders", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:40000"
		req.Header.Set("User-Agent", "curl/8.0")

		want := sha256Hex("proto=HTTP/1.1|cipher=unknown-cipher|tlsId=no-session|addr=10.0.0.5|ua=curl/8.0")
		assert.Equal(t, want, ja4.Extract(req))
	})

	t.Run("missing user agent degrades to unknown-agent", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.5:40000"

		want := sha256Hex("proto=HTTP/1.1|cipher=unknown-cipher|tlsId=no-session|addr=10.0.0.5|ua=unknown-agent")
		assert.Equal(t, want, ja4.Extract(req))
	})

	t.Run("deterministic for identical inputs", func(t *testing.T) {
		t.Parallel()
		build := func() *http.Request {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = "192.0.2.10:1234"
			req.Header.Set("User-Agent", "Mozilla/5.0")
			req.TLS = &tls.ConnectionState{
				Version:     tls.VersionTLS12,
				CipherSuite: tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
				TLSUnique:   []byte{0xde, 0xad, 0xbe, 0xef},
			}
			return req
		}

		assert.Equal(t, ja4.Extract(build()), ja4.Extract(build()))
	})

	t.Run("different IPs produce different fallbacks", func(t *testing.T) {
		t.Parallel()
		req1 := httptest.NewRequest(http.MethodGet, "/", nil)
		req1.RemoteAddr = "192.0.2.10:1234"
		req2 := httptest.NewRequest(http.MethodGet, "/", nil)
		req2.RemoteAddr = "192.0.2.11:1234"

		assert.NotEqual(t, ja4.Extract(req1), ja4.Extract(req2))
	})

	t.Run("fallback uses forwarded client IP", func(t *testing.T) {
		t.Parallel()
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = "10.0.0.1:443"
		req.Header.Set("X-Forwarded-For", "203.0.113.7, 10.0.0.1")
		req.Header.Set("User-Agent", "curl/8.0")

		want := sha256Hex("proto=HTTP/1.1|cipher=unknown-cipher|tlsId=no-session|addr=203.0.113.7|ua=curl/8.0")
		assert.Equal(t, want, ja4.Extract(req))
	})
}
