package repository

import (
	"context"

	"github.com/authflow/session-gateway/domain"
)

// SessionRepository abstracts the TTL key-value store holding session records
// and the secondary user-id cache. Implementations must be safe for
// concurrent use; consistency is delegated to the store's per-key atomicity.
type SessionRepository interface {
	// Save writes the session record and its user-id cache entry. A prior
	// record under the same id is overwritten.
	Save(ctx context.Context, session *domain.Session) error
	// Get returns ErrSessionNotFound when the key is absent, regardless of
	// whether it was deleted or evicted by TTL.
	Get(ctx context.Context, id string) (*domain.Session, error)
	// Delete removes the session record, its cache entry and its reverse
	// index membership. Deleting a non-existent session is not an error.
	Delete(ctx context.Context, id string) error
	// CachedUserID reads only the secondary index; returns ErrUserIDCacheMiss
	// when the entry is absent.
	CachedUserID(ctx context.Context, id string) (string, error)
	// CacheUserID repopulates the secondary index after a miss or a
	// disagreement with the session record.
	CacheUserID(ctx context.Context, id, userID string) error
	// SessionsForUser lists session ids from the reverse index. Entries for
	// naturally expired sessions may linger; deleting them is idempotent.
	SessionsForUser(ctx context.Context, userID string) ([]string, error)
	// Ping reports store reachability for the health surface.
	Ping(ctx context.Context) error
}
