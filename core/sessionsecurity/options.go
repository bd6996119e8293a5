package sessionsecurity

import (
	"log/slog"
	"time"
)

// Option is a functional option for configuring the repository.
type Option func(*Repository)

// WithLogger sets the structured logger. The default discards output.
func WithLogger(log *slog.Logger) Option {
	return func(r *Repository) {
		if log != nil {
			r.log = log
		}
	}
}

// WithTTL overrides the session record time-to-live.
func WithTTL(ttl time.Duration) Option {
	return func(r *Repository) {
		if ttl > 0 {
			r.ttl = ttl
		}
	}
}

// WithKeyPrefix overrides the session record key prefix.
func WithKeyPrefix(prefix string) Option {
	return func(r *Repository) {
		if prefix != "" {
			r.keyPrefix = prefix
		}
	}
}

// WithEventsKey overrides the risk-event list key.
func WithEventsKey(key string) Option {
	return func(r *Repository) {
		if key != "" {
			r.eventsKey = key
		}
	}
}

// WithHistoryLimit overrides the risk-event list cap.
func WithHistoryLimit(limit int64) Option {
	return func(r *Repository) {
		if limit > 0 {
			r.historyLimit = limit
		}
	}
}
