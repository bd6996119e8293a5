package sessionsecurity_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ja4guard/ja4guard/core/sessionsecurity"
)

// failingStore reports every operation as unavailable.
type failingStore struct{}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return sessionsecurity.ErrStoreUnavailable
}

func (failingStore) Get(context.Context, string) ([]byte, error) {
	return nil, sessionsecurity.ErrStoreUnavailable
}

func (failingStore) Delete(context.Context, string) error {
	return sessionsecurity.ErrStoreUnavailable
}

func (failingStore) PushCapped(context.Context, string, []byte, int64) error {
	return sessionsecurity.ErrStoreUnavailable
}

func (failingStore) ListRange(context.Context, string, int64) ([][]byte, error) {
	return nil, sessionsecurity.ErrStoreUnavailable
}

func testRecord(sessionID string) sessionsecurity.SessionRecord {
	return sessionsecurity.NewRecord(sessionsecurity.NewRecordParams{
		SessionID:         sessionID,
		User:              "admin",
		JA4Fingerprint:    "t13d1516h2_8daaf6152771_b0da82dd1658",
		ClientFingerprint: "client-fp",
		UserAgent:         "curl/8.0",
		IPAddress:         "10.0.0.5",
	})
}

func fetchRaw(t *testing.T, store *sessionsecurity.MemoryStore, key string) sessionsecurity.SessionRecord {
	t.Helper()
	payload, err := store.Get(context.Background(), key)
	require.NoError(t, err)
	var record sessionsecurity.SessionRecord
	require.NoError(t, json.Unmarshal(payload, &record))
	return record
}

func decodeEvents(t *testing.T, store *sessionsecurity.MemoryStore) []sessionsecurity.RiskEvent {
	t.Helper()
	raw := store.List("ja4:risk-events")
	events := make([]sessionsecurity.RiskEvent, len(raw))
	for i, payload := range raw {
		require.NoError(t, json.Unmarshal(payload, &events[i]))
	}
	return events
}

func TestRepository_PersistFetch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("round trip under prefixed key", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)
		record := testRecord("sess-1")

		repo.Persist(ctx, record)

		// Stored under the namespaced key.
		stored := fetchRaw(t, store, "ja4:session:sess-1")
		assert.Equal(t, record, stored)

		got, ok := repo.Fetch(ctx, "sess-1")
		require.True(t, ok)
		assert.Equal(t, record, got)
	})

	t.Run("absent session folds into not found", func(t *testing.T) {
		t.Parallel()
		repo := sessionsecurity.NewRepository(sessionsecurity.NewMemoryStore())

		got, ok := repo.Fetch(ctx, "missing")
		assert.False(t, ok)
		assert.Empty(t, got.SessionID)
	})

	t.Run("unavailable store folds into not found", func(t *testing.T) {
		t.Parallel()
		repo := sessionsecurity.NewRepository(failingStore{})

		_, ok := repo.Fetch(ctx, "sess-1")
		assert.False(t, ok)
	})

	t.Run("garbage payload folds into not found", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		require.NoError(t, store.Set(ctx, "ja4:session:sess-1", []byte("{not json"), time.Hour))
		repo := sessionsecurity.NewRepository(store)

		_, ok := repo.Fetch(ctx, "sess-1")
		assert.False(t, ok)
	})

	t.Run("empty session id is ignored", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)

		record := testRecord("")
		repo.Persist(ctx, record)

		_, ok := repo.Fetch(ctx, "")
		assert.False(t, ok)
		_, err := store.Get(ctx, "ja4:session:")
		assert.ErrorIs(t, err, sessionsecurity.ErrNotFound)
	})
}

func TestRepository_Disabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := sessionsecurity.NewRepository(nil)
	require.False(t, repo.Enabled())

	record := testRecord("sess-1")

	// None of these may panic or block; all are silent no-ops.
	repo.Persist(ctx, record)
	repo.Refresh(ctx, record, "2.2.2.2", "other-agent")
	repo.RecordMismatch(ctx, &record, "fp-2", "2.2.2.2", "other-agent")
	repo.RecordAttributeChange(ctx, record, sessionsecurity.EventClientAttributeChange, "ip changed", nil, "2.2.2.2", "other-agent")
	repo.RecordTermination(ctx, record, "2.2.2.2", "other-agent", "User logout")
	repo.DeleteSession(ctx, "sess-1")

	_, ok := repo.Fetch(ctx, "sess-1")
	assert.False(t, ok)
}

func TestRepository_Refresh(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	repo := sessionsecurity.NewRepository(store)
	record := testRecord("sess-1")
	record.LastSeenAt = 0
	repo.Persist(ctx, record)

	repo.Refresh(ctx, record, "2.2.2.2", "firefox/128")

	stored := fetchRaw(t, store, "ja4:session:sess-1")
	assert.Equal(t, "2.2.2.2", stored.IPAddress)
	assert.Equal(t, "firefox/128", stored.UserAgent)
	assert.Greater(t, stored.LastSeenAt, int64(0))
	assert.Equal(t, sessionsecurity.StatusActive, stored.Status)
	assert.Empty(t, decodeEvents(t, store), "refresh is not an audit event")
}

func TestRepository_RecordMismatch(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("flags the record and appends an event", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)
		record := testRecord("sess-1")
		repo.Persist(ctx, record)

		repo.RecordMismatch(ctx, &record, "fp-observed", "2.2.2.2", "curl/8.0")

		stored := fetchRaw(t, store, "ja4:session:sess-1")
		assert.Equal(t, sessionsecurity.StatusChallengeRequired, stored.Status)
		assert.Equal(t, "2.2.2.2", stored.IPAddress)

		events := decodeEvents(t, store)
		require.Len(t, events, 1)
		assert.Equal(t, sessionsecurity.EventJA4Mismatch, events[0].Type)
		assert.Equal(t, "sess-1", events[0].SessionID)
		assert.Equal(t, "fp-observed", events[0].Details["receivedJa4"])
	})

	t.Run("no stored record still produces an event", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)

		repo.RecordMismatch(ctx, nil, "fp-observed", "2.2.2.2", "curl/8.0")

		events := decodeEvents(t, store)
		require.Len(t, events, 1)
		assert.Empty(t, events[0].SessionID)
		assert.Equal(t, "fp-observed", events[0].Details["receivedJa4"])
	})

	t.Run("empty provided fingerprint omits the detail", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)

		repo.RecordMismatch(ctx, nil, "", "2.2.2.2", "curl/8.0")

		events := decodeEvents(t, store)
		require.Len(t, events, 1)
		assert.Empty(t, events[0].Details)
	})

	t.Run("cannot revive an invalidated record", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)
		record := testRecord("sess-1")
		require.True(t, record.TransitionTo(sessionsecurity.StatusInvalidated))
		repo.Persist(ctx, record)

		repo.RecordMismatch(ctx, &record, "fp-observed", "2.2.2.2", "curl/8.0")

		stored := fetchRaw(t, store, "ja4:session:sess-1")
		assert.Equal(t, sessionsecurity.StatusInvalidated, stored.Status)
	})
}

func TestRepository_RecordAttributeChange(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	repo := sessionsecurity.NewRepository(store)
	record := testRecord("sess-1")
	repo.Persist(ctx, record)

	repo.RecordAttributeChange(ctx, record, sessionsecurity.EventClientAttributeChange,
		"IP address changed",
		map[string]string{"previousIp": "10.0.0.5", "currentIp": "2.2.2.2"},
		"2.2.2.2", "curl/8.0")

	// Drift is observed, never punished.
	stored := fetchRaw(t, store, "ja4:session:sess-1")
	assert.Equal(t, sessionsecurity.StatusActive, stored.Status)

	events := decodeEvents(t, store)
	require.Len(t, events, 1)
	assert.Equal(t, sessionsecurity.EventClientAttributeChange, events[0].Type)
	assert.Equal(t, "10.0.0.5", events[0].Details["previousIp"])
	assert.Equal(t, "2.2.2.2", events[0].Details["currentIp"])
}

func TestRepository_RecordTermination(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	repo := sessionsecurity.NewRepository(store)
	record := testRecord("sess-1")
	repo.Persist(ctx, record)

	repo.RecordTermination(ctx, record, "10.0.0.5", "curl/8.0", "User logout")

	stored := fetchRaw(t, store, "ja4:session:sess-1")
	assert.Equal(t, sessionsecurity.StatusInvalidated, stored.Status)

	events := decodeEvents(t, store)
	require.Len(t, events, 1)
	assert.Equal(t, sessionsecurity.EventSessionTerminated, events[0].Type)
	assert.Equal(t, "User logout", events[0].Message)
}

func TestRepository_DeleteSession(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	repo := sessionsecurity.NewRepository(store)
	repo.Persist(ctx, testRecord("sess-1"))

	repo.DeleteSession(ctx, "sess-1")

	_, ok := repo.Fetch(ctx, "sess-1")
	assert.False(t, ok)
}

func TestRepository_EventHistoryCap(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	repo := sessionsecurity.NewRepository(store)

	for i := 0; i < 205; i++ {
		record := testRecord(fmt.Sprintf("sess-%d", i))
		repo.RecordAttributeChange(ctx, record, sessionsecurity.EventClientAttributeChange,
			"IP address changed", nil, "2.2.2.2", "curl/8.0")
	}

	events := decodeEvents(t, store)
	require.Len(t, events, 200)
	// Newest first: the last session recorded is at the head.
	assert.Equal(t, "sess-204", events[0].SessionID)
	assert.Equal(t, "sess-5", events[199].SessionID)
}

func TestRepository_RecentEvents(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("reads newest first with a limit", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)

		for i := 0; i < 5; i++ {
			record := testRecord(fmt.Sprintf("sess-%d", i))
			repo.RecordAttributeChange(ctx, record, sessionsecurity.EventClientAttributeChange,
				"IP address changed", nil, "2.2.2.2", "curl/8.0")
		}

		events := repo.RecentEvents(ctx, 3)
		require.Len(t, events, 3)
		assert.Equal(t, "sess-4", events[0].SessionID)
		assert.Equal(t, "sess-2", events[2].SessionID)
	})

	t.Run("skips undecodable entries", func(t *testing.T) {
		t.Parallel()
		store := sessionsecurity.NewMemoryStore()
		repo := sessionsecurity.NewRepository(store)

		require.NoError(t, store.PushCapped(ctx, "ja4:risk-events", []byte("{garbage"), 200))
		repo.RecordAttributeChange(ctx, testRecord("sess-1"), sessionsecurity.EventClientAttributeChange,
			"IP address changed", nil, "2.2.2.2", "curl/8.0")

		events := repo.RecentEvents(ctx, 0)
		require.Len(t, events, 1)
		assert.Equal(t, "sess-1", events[0].SessionID)
	})

	t.Run("unavailable store yields nothing", func(t *testing.T) {
		t.Parallel()
		repo := sessionsecurity.NewRepository(failingStore{})
		assert.Empty(t, repo.RecentEvents(ctx, 10))
	})

	t.Run("disabled repository yields nothing", func(t *testing.T) {
		t.Parallel()
		repo := sessionsecurity.NewRepository(nil)
		assert.Empty(t, repo.RecentEvents(ctx, 10))
	})
}

func TestRepository_FailingStoreNeverErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	repo := sessionsecurity.NewRepository(failingStore{})
	require.True(t, repo.Enabled())
	record := testRecord("sess-1")

	repo.Persist(ctx, record)
	repo.Refresh(ctx, record, "2.2.2.2", "curl/8.0")
	repo.RecordMismatch(ctx, &record, "fp", "2.2.2.2", "curl/8.0")
	repo.RecordTermination(ctx, record, "2.2.2.2", "curl/8.0", "User logout")
	repo.DeleteSession(ctx, "sess-1")

	_, ok := repo.Fetch(ctx, "sess-1")
	assert.False(t, ok)
}

func TestMemoryStore_TTLExpiry(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	store := sessionsecurity.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "k", []byte("v"), time.Millisecond))
	time.Sleep(10 * time.Millisecond)

	_, err := store.Get(ctx, "k")
	assert.ErrorIs(t, err, sessionsecurity.ErrNotFound)
}

func TestErrStoreUnavailable_Wrapping(t *testing.T) {
	t.Parallel()

	err := errors.Join(sessionsecurity.ErrStoreUnavailable, errors.New("dial tcp: refused"))
	assert.ErrorIs(t, err, sessionsecurity.ErrStoreUnavailable)
}
