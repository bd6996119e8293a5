package sessionsecurity

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"time"

	"github.com/ja4guard/ja4guard/core/logger"
)

const (
	// defaultTTL is the fixed lifetime of a session record; every touch
	// re-arms it.
	defaultTTL = 3600 * time.Second
	// defaultKeyPrefix namespaces session records in the store.
	defaultKeyPrefix = "ja4:session:"
	// defaultEventsKey is the single list all risk events append to.
	defaultEventsKey = "ja4:risk-events"
	// defaultHistoryLimit caps the risk-event list, newest first.
	defaultHistoryLimit = 200
)

// Repository implements the session-security domain operations on top of
// a pluggable external store.
//
// The store is advisory: if it is absent or unavailable, every operation
// degrades to a no-op that returns an empty result and logs at most a
// warning. Request authorization never depends on it — only audit
// completeness does. No operation is retried; each store call is
// attempted once under the store's own timeout.
type Repository struct {
	store        Store
	log          *slog.Logger
	ttl          time.Duration
	keyPrefix    string
	eventsKey    string
	historyLimit int64
}

// NewRepository creates a repository over the given store. A nil store is
// valid and produces a permanently disabled repository, mirroring a
// deployment without the audit store.
func NewRepository(store Store, opts ...Option) *Repository {
	repo := &Repository{
		store:        store,
		log:          slog.New(slog.NewTextHandler(io.Discard, nil)),
		ttl:          defaultTTL,
		keyPrefix:    defaultKeyPrefix,
		eventsKey:    defaultEventsKey,
		historyLimit: defaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(repo)
	}
	return repo
}

// Enabled reports whether a store is configured.
func (r *Repository) Enabled() bool {
	return r.store != nil
}

func (r *Repository) sessionKey(sessionID string) string {
	return r.keyPrefix + sessionID
}

// Persist upserts the record wholesale under its session key with the
// fixed TTL.
func (r *Repository) Persist(ctx context.Context, record SessionRecord) {
	if !r.Enabled() || record.SessionID == "" {
		return
	}

	payload, err := json.Marshal(record)
	if err != nil {
		r.log.Error("failed to encode session record",
			logger.SessionID(record.SessionID), logger.Error(err))
		return
	}

	if err := r.store.Set(ctx, r.sessionKey(record.SessionID), payload, r.ttl); err != nil {
		r.log.Warn("failed to persist session record",
			logger.SessionID(record.SessionID), logger.Error(err))
	}
}

// Fetch reads the record for the session. Absent keys, store
// unavailability and deserialization failures all fold into "absent":
// the second return is false and the caller proceeds without drift data.
func (r *Repository) Fetch(ctx context.Context, sessionID string) (SessionRecord, bool) {
	if !r.Enabled() || sessionID == "" {
		return SessionRecord{}, false
	}

	payload, err := r.store.Get(ctx, r.sessionKey(sessionID))
	if err != nil {
		if !errors.Is(err, ErrNotFound) {
			r.log.Warn("failed to fetch session record",
				logger.SessionID(sessionID), logger.Error(err))
		}
		return SessionRecord{}, false
	}

	var record SessionRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		r.log.Warn("failed to decode session record, treating as absent",
			logger.SessionID(sessionID), logger.Error(err))
		return SessionRecord{}, false
	}
	return record, true
}

// Refresh touches the record's last-seen timestamp, overwrites its IP and
// user-agent with the current non-empty values, and persists it,
// extending the TTL. Whole-record last-writer-wins under concurrent
// requests for the same session.
func (r *Repository) Refresh(ctx context.Context, record SessionRecord, currentIP, currentUserAgent string) {
	if !r.Enabled() {
		return
	}
	record.Touch(time.Now(), currentIP, currentUserAgent)
	r.Persist(ctx, record)
}

// RecordMismatch handles a fingerprint mismatch. If a stored record
// exists it is moved to CHALLENGE_REQUIRED, touched and persisted; a
// JA4_MISMATCH event is appended unconditionally, carrying the
// client-supplied fingerprint as the receivedJa4 detail when one was
// provided. A nil record means no stored state existed for the session.
func (r *Repository) RecordMismatch(ctx context.Context, record *SessionRecord, providedJA4, currentIP, currentUserAgent string) {
	if !r.Enabled() {
		return
	}

	if record != nil {
		record.TransitionTo(StatusChallengeRequired)
		record.Touch(time.Now(), currentIP, currentUserAgent)
		r.Persist(ctx, *record)
	}

	var details map[string]string
	if providedJA4 != "" {
		details = map[string]string{"receivedJa4": providedJA4}
	}
	r.appendEvent(ctx, NewRiskEvent(
		EventJA4Mismatch, record, currentIP, currentUserAgent,
		"JA4 fingerprint mismatch detected", details))
}

// RecordAttributeChange appends an audit event for a drifted client
// attribute. The record's status is deliberately left untouched: drift is
// observed, never punished.
func (r *Repository) RecordAttributeChange(ctx context.Context, record SessionRecord, eventType EventType, message string, details map[string]string, currentIP, currentUserAgent string) {
	if !r.Enabled() {
		return
	}
	r.appendEvent(ctx, NewRiskEvent(eventType, &record, currentIP, currentUserAgent, message, details))
}

// RecordTermination marks the record INVALIDATED, persists it and appends
// a SESSION_TERMINATED event with the given reason.
func (r *Repository) RecordTermination(ctx context.Context, record SessionRecord, currentIP, currentUserAgent, reason string) {
	if !r.Enabled() {
		return
	}
	record.TransitionTo(StatusInvalidated)
	r.Persist(ctx, record)
	r.appendEvent(ctx, NewRiskEvent(EventSessionTerminated, &record, currentIP, currentUserAgent, reason, nil))
}

// DeleteSession removes the record's key from the store.
func (r *Repository) DeleteSession(ctx context.Context, sessionID string) {
	if !r.Enabled() || sessionID == "" {
		return
	}
	if err := r.store.Delete(ctx, r.sessionKey(sessionID)); err != nil {
		r.log.Warn("failed to delete session record",
			logger.SessionID(sessionID), logger.Error(err))
	}
}

// RecentEvents reads up to limit events from the audit list, newest
// first. A non-positive limit uses the history cap. Like Fetch, store
// unavailability folds into an empty result; entries that fail to decode
// are skipped.
func (r *Repository) RecentEvents(ctx context.Context, limit int64) []RiskEvent {
	if !r.Enabled() {
		return nil
	}
	if limit <= 0 || limit > r.historyLimit {
		limit = r.historyLimit
	}

	raw, err := r.store.ListRange(ctx, r.eventsKey, limit)
	if err != nil {
		r.log.Warn("failed to read risk events", logger.Error(err))
		return nil
	}

	events := make([]RiskEvent, 0, len(raw))
	for _, payload := range raw {
		var event RiskEvent
		if err := json.Unmarshal(payload, &event); err != nil {
			r.log.Warn("skipping undecodable risk event", logger.Error(err))
			continue
		}
		events = append(events, event)
	}
	return events
}

// appendEvent pushes the event onto the bounded, newest-first audit list.
func (r *Repository) appendEvent(ctx context.Context, event RiskEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		r.log.Error("failed to encode risk event",
			logger.Type(string(event.Type)), logger.Error(err))
		return
	}

	if err := r.store.PushCapped(ctx, r.eventsKey, payload, r.historyLimit); err != nil {
		r.log.Warn("failed to append risk event",
			logger.Type(string(event.Type)), logger.Error(err))
	}
}
