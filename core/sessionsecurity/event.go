package sessionsecurity

import "time"

// EventType classifies security-relevant occurrences in the audit log.
type EventType string

const (
	EventJA4Mismatch           EventType = "JA4_MISMATCH"
	EventClientAttributeChange EventType = "CLIENT_ATTRIBUTE_CHANGE"
	EventSessionTerminated     EventType = "SESSION_TERMINATED"
)

// RiskEvent is an immutable, append-only audit fact. The session identity
// fields are a snapshot captured at event time, never a live link to the
// record they were copied from.
type RiskEvent struct {
	Type              EventType         `json:"type"`
	SessionID         string            `json:"sessionId,omitempty"`
	User              string            `json:"user,omitempty"`
	JA4Fingerprint    string            `json:"ja4Fingerprint,omitempty"`
	ClientFingerprint string            `json:"clientFingerprint,omitempty"`
	IPAddress         string            `json:"ipAddress"`
	UserAgent         string            `json:"userAgent"`
	Message           string            `json:"message"`
	Details           map[string]string `json:"details,omitempty"`
	Timestamp         int64             `json:"timestamp"`
}

// NewRiskEvent builds an event correlated to the given record snapshot.
// A nil record leaves the identity fields empty; the event still carries
// the observed network attributes.
func NewRiskEvent(eventType EventType, record *SessionRecord, ip, userAgent, message string, details map[string]string) RiskEvent {
	event := RiskEvent{
		Type:      eventType,
		IPAddress: ip,
		UserAgent: userAgent,
		Message:   message,
		Details:   details,
		Timestamp: time.Now().UnixMilli(),
	}
	if record != nil {
		event.SessionID = record.SessionID
		event.User = record.User
		event.JA4Fingerprint = record.JA4Fingerprint
		event.ClientFingerprint = record.ClientFingerprint
	}
	return event
}
