package sessionsecurity

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultOpTimeout bounds every Redis call so a slow or dead store
// degrades into the no-op path instead of stalling the request.
const defaultOpTimeout = 3 * time.Second

// RedisStore adapts a go-redis client to the Store interface.
type RedisStore struct {
	client    *redis.Client
	opTimeout time.Duration
}

// RedisStoreOption configures a RedisStore.
type RedisStoreOption func(*RedisStore)

// WithOpTimeout overrides the per-operation timeout.
func WithOpTimeout(timeout time.Duration) RedisStoreOption {
	return func(s *RedisStore) {
		if timeout > 0 {
			s.opTimeout = timeout
		}
	}
}

// NewRedisStore wraps an already-connected Redis client.
func NewRedisStore(client *redis.Client, opts ...RedisStoreOption) *RedisStore {
	store := &RedisStore{
		client:    client,
		opTimeout: defaultOpTimeout,
	}
	for _, opt := range opts {
		opt(store)
	}
	return store
}

func (s *RedisStore) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.opTimeout)
}

// Set upserts the value with a TTL via SET EX.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Set(ctx, key, value, ttl).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// Get reads the value at key, mapping redis.Nil to ErrNotFound.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	payload, err := s.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	return payload, nil
}

// Delete removes the key. A missing key is not an error.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := s.client.Del(ctx, key).Err(); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// PushCapped prepends the value and trims the list to limit entries in a
// single pipeline (LPUSH + LTRIM). The pipeline keeps the pair on one
// round trip; if the trim half fails the list may transiently exceed the
// cap, which the audit-log contract tolerates.
func (s *RedisStore) PushCapped(ctx context.Context, key string, value []byte, limit int64) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, value)
	pipe.LTrim(ctx, key, 0, limit-1)
	if _, err := pipe.Exec(ctx); err != nil {
		return errors.Join(ErrStoreUnavailable, err)
	}
	return nil
}

// ListRange reads up to limit entries via LRANGE, newest first.
func (s *RedisStore) ListRange(ctx context.Context, key string, limit int64) ([][]byte, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	values, err := s.client.LRange(ctx, key, 0, limit-1).Result()
	if err != nil {
		return nil, errors.Join(ErrStoreUnavailable, err)
	}
	entries := make([][]byte, len(values))
	for i, v := range values {
		entries[i] = []byte(v)
	}
	return entries, nil
}
