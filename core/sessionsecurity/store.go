package sessionsecurity

import (
	"context"
	"time"
)

// Store is the minimal key/value contract the repository needs from the
// external store. Implementations must be safe for concurrent use and
// must bound every call with a short timeout rather than block the
// request that triggered it.
//
// Get returns ErrNotFound for absent keys. Any transport failure should
// be reported wrapped in ErrStoreUnavailable so the repository can
// degrade to its no-op path.
type Store interface {
	// Set upserts the value at key with the given TTL, overwriting any
	// prior value wholesale.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// Get reads the value at key. Absent keys yield ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete removes the key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
	// PushCapped prepends value to the list at key and trims the list to
	// the most recent limit entries, newest first. The push must not be
	// lost even if the trim fails; a transient overrun past limit is
	// tolerable.
	PushCapped(ctx context.Context, key string, value []byte, limit int64) error
	// ListRange reads up to limit entries from the list at key, newest
	// first. An absent list yields an empty slice, not an error.
	ListRange(ctx context.Context, key string, limit int64) ([][]byte, error)
}
