package sessionsecurity

import "time"

// Status describes where a session sits in its security lifecycle.
// Transitions are monotone toward termination: ACTIVE may move to
// CHALLENGE_REQUIRED or INVALIDATED, CHALLENGE_REQUIRED to INVALIDATED,
// and INVALIDATED is terminal.
type Status string

const (
	StatusActive            Status = "ACTIVE"
	StatusChallengeRequired Status = "CHALLENGE_REQUIRED"
	StatusInvalidated       Status = "INVALIDATED"
)

// rank orders statuses along the termination axis.
func (s Status) rank() int {
	switch s {
	case StatusActive:
		return 0
	case StatusChallengeRequired:
		return 1
	case StatusInvalidated:
		return 2
	default:
		return -1
	}
}

// SessionRecord is the advisory security record kept in the external
// store, one per active or recently-active logical session. The record is
// audit/telemetry state, not an authorization source: absence in the
// store is a valid state, and authorization is always decided from the
// host-local session's bound fingerprint.
//
// Timestamps are epoch milliseconds to keep the wire format stable.
type SessionRecord struct {
	SessionID         string            `json:"sessionId"`
	User              string            `json:"user"`
	JA4Fingerprint    string            `json:"ja4Fingerprint"`
	ClientFingerprint string            `json:"clientFingerprint"`
	UserAgent         string            `json:"userAgent"`
	IPAddress         string            `json:"ipAddress"`
	ClientSignals     map[string]string `json:"clientSignals,omitempty"`
	CreatedAt         int64             `json:"createdAt"`
	LastSeenAt        int64             `json:"lastSeenAt"`
	Status            Status            `json:"status"`
}

// NewRecordParams carries the identity snapshot captured at login time.
type NewRecordParams struct {
	SessionID         string
	User              string
	JA4Fingerprint    string
	ClientFingerprint string
	UserAgent         string
	IPAddress         string
	ClientSignals     map[string]string
}

// NewRecord creates an ACTIVE record with creation and last-seen
// timestamps set to now.
func NewRecord(params NewRecordParams) SessionRecord {
	now := time.Now().UnixMilli()
	return SessionRecord{
		SessionID:         params.SessionID,
		User:              params.User,
		JA4Fingerprint:    params.JA4Fingerprint,
		ClientFingerprint: params.ClientFingerprint,
		UserAgent:         params.UserAgent,
		IPAddress:         params.IPAddress,
		ClientSignals:     params.ClientSignals,
		CreatedAt:         now,
		LastSeenAt:        now,
		Status:            StatusActive,
	}
}

// Touch updates the last-seen timestamp and overwrites the stored IP and
// user-agent when the current values are non-empty.
func (r *SessionRecord) Touch(moment time.Time, currentIP, currentUserAgent string) {
	r.LastSeenAt = moment.UnixMilli()
	if currentIP != "" {
		r.IPAddress = currentIP
	}
	if currentUserAgent != "" {
		r.UserAgent = currentUserAgent
	}
}

// TransitionTo moves the record to the given status and reports whether
// the transition was applied. Moves away from the termination axis are
// refused: an INVALIDATED record can never be revived.
func (r *SessionRecord) TransitionTo(next Status) bool {
	if next.rank() < r.Status.rank() {
		return false
	}
	r.Status = next
	return true
}

// DifferentIP reports whether the candidate is a non-empty IP that
// differs from the stored one.
func (r SessionRecord) DifferentIP(candidate string) bool {
	return candidate != "" && r.IPAddress != candidate
}

// DifferentUserAgent reports whether the candidate is a non-empty
// user-agent that differs from the stored one.
func (r SessionRecord) DifferentUserAgent(candidate string) bool {
	return candidate != "" && r.UserAgent != candidate
}
