package session

import (
	"context"

	"github.com/google/uuid"
)

// Store defines the persistence interface for host-local sessions.
// Implementations must handle concurrent access safely.
type Store interface {
	GetByToken(ctx context.Context, token string) (Session, error)
	Save(ctx context.Context, sess Session) error
	Delete(ctx context.Context, id uuid.UUID) error
	// DeleteExpired removes all expired sessions and returns the count.
	DeleteExpired(ctx context.Context) (int64, error)
}
