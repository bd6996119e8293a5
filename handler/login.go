package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/ja4guard/ja4guard/core/logger"
	"github.com/ja4guard/ja4guard/core/sessionsecurity"
	"github.com/ja4guard/ja4guard/pkg/clientip"
	"github.com/ja4guard/ja4guard/pkg/ja4"
)

// loginRequest is the credential payload, optionally carrying the
// client's self-declared fingerprint and opaque signals.
type loginRequest struct {
	Username          string            `json:"username"`
	Password          string            `json:"password"`
	ClientFingerprint string            `json:"clientFingerprint"`
	ClientSignals     map[string]string `json:"clientSignals"`
}

// Login authenticates credentials and establishes the fingerprint-bound
// session: it computes the request's JA4 fingerprint, creates the local
// session with the fingerprint bound and the inactivity timeout armed,
// and persists the ACTIVE security record keyed by the session ID.
func (h *Handlers) Login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.log.Warn("failed to parse login payload", logger.Error(err))
			writeMessage(w, http.StatusBadRequest, "Malformed JSON body")
			return
		}

		if req.Username == "" || req.Password == "" {
			writeMessage(w, http.StatusBadRequest, "Missing credentials")
			return
		}

		if !h.creds.Authenticate(req.Username, req.Password) {
			writeMessage(w, http.StatusUnauthorized, "Invalid username or password")
			return
		}

		ja4Fingerprint := ja4.Extract(r)
		clientIP := clientip.GetIP(r)
		userAgent := clientip.UserAgent(r)

		sess, err := h.transport.Manager().Create(r.Context(), req.Username, ja4Fingerprint, clientIP, userAgent)
		if err != nil {
			h.log.Error("failed to create session", logger.User(req.Username), logger.Error(err))
			writeMessage(w, http.StatusInternalServerError, "Failed to create session")
			return
		}
		h.transport.Bind(w, sess)

		clientFingerprint := req.ClientFingerprint
		if clientFingerprint == "" {
			clientFingerprint = ja4Fingerprint
		}
		clientSignals := req.ClientSignals
		if clientSignals == nil {
			clientSignals = map[string]string{}
		}

		record := sessionsecurity.NewRecord(sessionsecurity.NewRecordParams{
			SessionID:         sess.ID.String(),
			User:              req.Username,
			JA4Fingerprint:    ja4Fingerprint,
			ClientFingerprint: clientFingerprint,
			UserAgent:         userAgent,
			IPAddress:         clientIP,
			ClientSignals:     clientSignals,
		})
		h.repo.Persist(r.Context(), record)

		h.log.Info("user logged in",
			logger.User(req.Username),
			logger.SessionID(sess.ID.String()),
			logger.ClientIP(clientIP),
		)

		writeJSON(w, http.StatusOK, map[string]any{
			"status":            "success",
			"user":              req.Username,
			"boundFingerprint":  ja4Fingerprint,
			"clientFingerprint": clientFingerprint,
			"clientSignals":     clientSignals,
			"ipAddress":         clientIP,
			"userAgent":         userAgent,
			"sessionStatus":     record.Status,
			"lastSeenAt":        time.UnixMilli(record.LastSeenAt).UTC().Format(time.RFC3339),
		})
	}
}
