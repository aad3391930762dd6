package redis

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	redislib "github.com/redis/go-redis/v9"

	"github.com/authflow/session-gateway/domain"
	"github.com/authflow/session-gateway/repository"
)

const (
	sessionPrefix   = "session:"
	userIDPrefix    = "user_id:"
	userIndexPrefix = "user_sessions:"
)

type sessionRepository struct {
	client   *redislib.Client
	ttl      time.Duration
	cacheTTL time.Duration
}

// NewSessionRepository creates a Redis-backed session repository. ttl bounds
// the session record, cacheTTL the secondary user-id index.
func NewSessionRepository(client *redislib.Client, ttl, cacheTTL time.Duration) repository.SessionRepository {
	if ttl <= 0 {
		ttl = time.Hour
	}
	if cacheTTL <= 0 {
		cacheTTL = ttl
	}
	return &sessionRepository{
		client:   client,
		ttl:      ttl,
		cacheTTL: cacheTTL,
	}
}

func (r *sessionRepository) Save(ctx context.Context, session *domain.Session) error {
	if session == nil || session.ID == "" || session.UserID == "" {
		return domain.ErrInvalidPayload
	}

	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now()
	}
	if session.ExpiresAt.Before(session.CreatedAt) {
		session.ExpiresAt = session.CreatedAt.Add(r.ttl)
	}

	payload, err := json.Marshal(session)
	if err != nil {
		return domain.WrapError(domain.ErrCodeInternal, "failed to encode session", err)
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		ttl = r.ttl
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, sessionPrefix+session.ID, payload, ttl)
		pipe.Set(ctx, userIDPrefix+session.ID, session.UserID, r.cacheTTL)
		pipe.SAdd(ctx, userIndexPrefix+session.UserID, session.ID)
		pipe.Expire(ctx, userIndexPrefix+session.UserID, ttl)
		return nil
	})
	if err != nil {
		return unavailable("failed to write session", err)
	}
	return nil
}

func (r *sessionRepository) Get(ctx context.Context, id string) (*domain.Session, error) {
	result, err := r.client.Get(ctx, sessionPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, unavailable("failed to read session", err)
	}

	var session domain.Session
	if err := json.Unmarshal([]byte(result), &session); err != nil {
		// A record that cannot be decoded must never validate.
		return nil, unavailable("malformed session record", err)
	}
	return &session, nil
}

func (r *sessionRepository) Delete(ctx context.Context, id string) error {
	// The reverse index needs the owning user id, so read the record first.
	// A missing record still gets its keys removed to keep Delete idempotent.
	session, err := r.Get(ctx, id)
	if err != nil && !domain.IsDomainError(err, domain.ErrCodeNotFound) {
		return err
	}

	_, err = r.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Del(ctx, sessionPrefix+id)
		pipe.Del(ctx, userIDPrefix+id)
		if session != nil {
			pipe.SRem(ctx, userIndexPrefix+session.UserID, id)
		}
		return nil
	})
	if err != nil {
		return unavailable("failed to delete session", err)
	}
	return nil
}

func (r *sessionRepository) CachedUserID(ctx context.Context, id string) (string, error) {
	userID, err := r.client.Get(ctx, userIDPrefix+id).Result()
	if err != nil {
		if errors.Is(err, redislib.Nil) {
			return "", domain.ErrUserIDCacheMiss
		}
		return "", unavailable("failed to read user id cache", err)
	}
	return userID, nil
}

func (r *sessionRepository) CacheUserID(ctx context.Context, id, userID string) error {
	if err := r.client.Set(ctx, userIDPrefix+id, userID, r.cacheTTL).Err(); err != nil {
		return unavailable("failed to refresh user id cache", err)
	}
	return nil
}

func (r *sessionRepository) SessionsForUser(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, userIndexPrefix+userID).Result()
	if err != nil {
		return nil, unavailable("failed to read user session index", err)
	}
	return ids, nil
}

func (r *sessionRepository) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return unavailable("session store unreachable", err)
	}
	return nil
}

func unavailable(message string, err error) error {
	return domain.WrapError(domain.ErrCodeStoreUnavailable, message, err)
}
