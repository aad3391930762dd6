package session

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/authflow/session-gateway/domain"
	"github.com/authflow/session-gateway/pkg/fingerprint"
	"github.com/authflow/session-gateway/repository"
	"github.com/authflow/session-gateway/usecase"
)

// UseCase owns session lifecycle: creation at sign-in, deletion at logout or
// password-reset completion. The verification read path never calls it,
// except for the expiry purge.
type UseCase struct {
	sessions repository.SessionRepository
	audit    usecase.AuditTrail
	logger   *zap.Logger
	ttl      time.Duration
}

func New(sessions repository.SessionRepository, audit usecase.AuditTrail, logger *zap.Logger, ttl time.Duration) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &UseCase{
		sessions: sessions,
		audit:    audit,
		logger:   logger,
		ttl:      ttl,
	}
}

// Start creates an independent session for the user and the presenting
// device. Sessions are keyed by session id, never by user id, so concurrent
// sign-ins from different devices coexist.
func (uc *UseCase) Start(ctx context.Context, userID string, attrs fingerprint.Attributes) (*domain.Session, error) {
	if userID == "" {
		return nil, domain.ErrInvalidPayload
	}

	now := time.Now()
	session := &domain.Session{
		ID:          uuid.NewString(),
		UserID:      userID,
		Fingerprint: fingerprint.Compute(attrs),
		CreatedAt:   now,
		ExpiresAt:   now.Add(uc.ttl),
		Device: domain.DeviceInfo{
			IP:             attrs.IP,
			UserAgent:      attrs.UserAgent,
			AcceptLanguage: attrs.AcceptLanguage,
			ForwardedFor:   attrs.ForwardedFor,
		},
	}

	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}

	uc.logger.Info("session started",
		zap.String("session_id", session.ID),
		zap.String("user_id", userID))
	return session, nil
}

// End removes the session. Ending a session that no longer exists is a no-op.
func (uc *UseCase) End(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return nil
	}
	if err := uc.sessions.Delete(ctx, sessionID); err != nil {
		return err
	}
	uc.logger.Info("session ended", zap.String("session_id", sessionID))
	return nil
}

// InvalidateUser deletes every session recorded for the user via the reverse
// index and returns how many were removed. Index entries for sessions that
// already expired naturally are deleted without effect.
func (uc *UseCase) InvalidateUser(ctx context.Context, userID string) (int, error) {
	if userID == "" {
		return 0, domain.ErrInvalidPayload
	}

	ids, err := uc.sessions.SessionsForUser(ctx, userID)
	if err != nil {
		return 0, err
	}

	removed := 0
	for _, id := range ids {
		if err := uc.sessions.Delete(ctx, id); err != nil {
			return removed, err
		}
		removed++
		if uc.audit != nil {
			uc.audit.Record(usecase.SecurityEvent{
				Kind:      "session_purged",
				SessionID: id,
				UserID:    userID,
				Reason:    "all sessions revoked for user",
			})
		}
	}

	uc.logger.Info("user sessions invalidated",
		zap.String("user_id", userID),
		zap.Int("count", removed))
	return removed, nil
}
