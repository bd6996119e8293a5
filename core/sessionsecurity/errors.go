package sessionsecurity

import "errors"

var (
	// ErrNotFound is returned by a Store when a key does not exist.
	ErrNotFound = errors.New("key not found")
	// ErrStoreUnavailable wraps transport-level store failures. The
	// repository folds it into absent/no-op results; it never reaches the
	// request path.
	ErrStoreUnavailable = errors.New("security store unavailable")
)
