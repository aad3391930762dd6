package validator

import (
	"context"
	"crypto/subtle"
	"time"

	"go.uber.org/zap"

	"github.com/authflow/session-gateway/domain"
	"github.com/authflow/session-gateway/pkg/fingerprint"
	"github.com/authflow/session-gateway/repository"
	"github.com/authflow/session-gateway/usecase"
)

// Verdict is the terminal state of a single validation attempt. There is no
// retry within a request; transport retries belong to the store client.
type Verdict int

const (
	VerdictValid Verdict = iota
	VerdictNotFound
	VerdictExpired
	VerdictFingerprintMismatch
	VerdictStoreError
)

func (v Verdict) String() string {
	switch v {
	case VerdictValid:
		return "valid"
	case VerdictNotFound:
		return "not_found"
	case VerdictExpired:
		return "expired"
	case VerdictFingerprintMismatch:
		return "fingerprint_mismatch"
	case VerdictStoreError:
		return "store_error"
	default:
		return "unknown"
	}
}

// Result carries the verdict and, when valid, the authenticated user id.
type Result struct {
	Verdict Verdict
	UserID  string
}

// UseCase decides whether a request holds a valid device-bound session.
type UseCase struct {
	sessions repository.SessionRepository
	audit    usecase.AuditTrail
	logger   *zap.Logger
	now      func() time.Time
}

func New(sessions repository.SessionRepository, audit usecase.AuditTrail, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UseCase{
		sessions: sessions,
		audit:    audit,
		logger:   logger,
		now:      time.Now,
	}
}

// Validate runs one lookup-and-compare pass for the presented session id and
// the attributes of the live request. Every ambiguous condition resolves to
// a non-valid verdict; infrastructure failures never validate a session.
func (uc *UseCase) Validate(ctx context.Context, sessionID string, attrs fingerprint.Attributes) Result {
	if sessionID == "" {
		return Result{Verdict: VerdictNotFound}
	}

	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		if domain.IsDomainError(err, domain.ErrCodeNotFound) {
			return Result{Verdict: VerdictNotFound}
		}
		uc.logger.Error("session lookup failed",
			zap.String("session_id", sessionID),
			zap.Error(err))
		uc.record(usecase.SecurityEvent{
			Kind:      "store_unavailable",
			SessionID: sessionID,
			IP:        attrs.IP,
			Reason:    err.Error(),
		})
		return Result{Verdict: VerdictStoreError}
	}

	// Redis eviction timing is not exact; the timestamp check is the
	// authoritative expiry gate even when the key is still present.
	if session.IsExpired(uc.now()) {
		return Result{Verdict: VerdictExpired, UserID: session.UserID}
	}

	current := fingerprint.Compute(attrs)
	if subtle.ConstantTimeCompare([]byte(current), []byte(session.Fingerprint)) != 1 {
		uc.logger.Warn("device fingerprint mismatch",
			zap.String("session_id", sessionID),
			zap.String("ip", attrs.IP))
		uc.record(usecase.SecurityEvent{
			Kind:      "fingerprint_mismatch",
			SessionID: sessionID,
			UserID:    session.UserID,
			IP:        attrs.IP,
			Reason:    "presented device attributes do not match session",
		})
		return Result{Verdict: VerdictFingerprintMismatch}
	}

	return Result{Verdict: VerdictValid, UserID: uc.resolveUserID(ctx, session)}
}

// resolveUserID serves the user id from the secondary cache when possible.
// The session record stays authoritative: a stale or missing cache entry is
// refreshed from the record just read, and cache failures are ignored.
func (uc *UseCase) resolveUserID(ctx context.Context, session *domain.Session) string {
	cached, err := uc.sessions.CachedUserID(ctx, session.ID)
	if err == nil && cached == session.UserID {
		return cached
	}
	if err == nil && cached != session.UserID {
		uc.logger.Warn("user id cache disagrees with session record",
			zap.String("session_id", session.ID))
	}
	if err := uc.sessions.CacheUserID(ctx, session.ID, session.UserID); err != nil {
		uc.logger.Debug("user id cache refresh failed",
			zap.String("session_id", session.ID),
			zap.Error(err))
	}
	return session.UserID
}

func (uc *UseCase) record(event usecase.SecurityEvent) {
	if uc.audit == nil {
		return
	}
	uc.audit.Record(event)
}
