package handler

import (
	"net/http"

	"github.com/ja4guard/ja4guard/core/logger"
	"github.com/ja4guard/ja4guard/pkg/clientip"
)

// Logout terminates the session: a SESSION_TERMINATED audit event is
// recorded, the stored record is removed, and the local session is
// destroyed. Responds 204 whether or not a session existed.
func (h *Handlers) Logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := h.transport.Load(r)
		if err == nil {
			ctx := r.Context()
			sessionID := sess.ID.String()

			if record, ok := h.repo.Fetch(ctx, sessionID); ok {
				h.repo.RecordTermination(ctx, record, clientip.GetIP(r), clientip.UserAgent(r), "User logout")
				h.repo.DeleteSession(ctx, sessionID)
			}

			if err := h.transport.Invalidate(ctx, w, sess); err != nil {
				h.log.Warn("failed to invalidate session", logger.SessionID(sessionID), logger.Error(err))
			}
			h.log.Info("user logged out", logger.User(sess.User), logger.SessionID(sessionID))
		}

		w.WriteHeader(http.StatusNoContent)
	}
}
