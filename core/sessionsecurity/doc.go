// Package sessionsecurity models the security state of HTTP sessions and
// records it in an external, possibly-unavailable key/value store.
//
// Three concerns live here:
//
//   - SessionRecord and RiskEvent: the data model. A record is advisory
//     per-session telemetry (bound fingerprint, last-seen network
//     attributes, lifecycle status); an event is an immutable audit fact
//     (mismatch, drift, termination) carrying a point-in-time identity
//     snapshot.
//   - Store: the minimal key/value contract, with a Redis implementation
//     (RedisStore) that bounds every call with a short timeout.
//   - Repository: the domain operations (persist, fetch, refresh,
//     record-mismatch, record-drift, record-termination) plus the bounded
//     newest-first risk-event log.
//
// The store is strictly advisory. Every repository operation degrades to
// a logged no-op when the store is missing or unavailable, so request
// authorization — which is decided from the host-local session alone —
// never depends on store health. Record writes are whole-record
// last-writer-wins; under concurrent requests for the same session a lost
// touch only shortens effective freshness.
//
//	store := sessionsecurity.NewRedisStore(client)
//	repo := sessionsecurity.NewRepository(store,
//		sessionsecurity.WithLogger(log),
//	)
//
//	repo.Persist(ctx, sessionsecurity.NewRecord(params))
//	if record, ok := repo.Fetch(ctx, sessionID); ok {
//		// drift checks against record
//	}
package sessionsecurity
