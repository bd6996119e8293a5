package handler

import (
	"net/http"
	"time"
)

// Profile reports the caller's session view: the local binding plus, when
// the advisory store has a record, the stored security state. The two are
// never reconciled; the stored record is informational only.
func (h *Handlers) Profile() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.transport.Load(r)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, "No active session")
			return
		}

		lastAccessed := sess.ExpiresAt.Add(-h.transport.Manager().TTL())

		payload := map[string]any{
			"user":             sess.User,
			"sessionId":        sess.ID.String(),
			"boundFingerprint": sess.Fingerprint,
			"issuedAt":         sess.CreatedAt.UTC().Format(time.RFC3339),
			"lastAccessedAt":   lastAccessed.UTC().Format(time.RFC3339),
		}

		if record, ok := h.repo.Fetch(r.Context(), sess.ID.String()); ok {
			payload["sessionStatus"] = record.Status
			payload["firstSeenAt"] = time.UnixMilli(record.CreatedAt).UTC().Format(time.RFC3339)
			payload["lastSeenAt"] = time.UnixMilli(record.LastSeenAt).UTC().Format(time.RFC3339)
			payload["storedIp"] = record.IPAddress
			payload["storedUserAgent"] = record.UserAgent
			payload["clientSignals"] = record.ClientSignals
		}

		writeJSON(w, http.StatusOK, payload)
	}
}
