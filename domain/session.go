package domain

import "time"

// Session represents one authenticated, device-bound context stored in Redis.
type Session struct {
	ID          string     `json:"id"`
	UserID      string     `json:"user_id"`
	Fingerprint string     `json:"fingerprint"`
	CreatedAt   time.Time  `json:"created_at"`
	ExpiresAt   time.Time  `json:"expires_at"`
	Device      DeviceInfo `json:"device,omitempty"`
}

// DeviceInfo holds the raw attributes the fingerprint was derived from.
// Retained for audit and debugging only; validation compares digests.
type DeviceInfo struct {
	IP             string `json:"ip,omitempty"`
	UserAgent      string `json:"user_agent,omitempty"`
	AcceptLanguage string `json:"accept_language,omitempty"`
	ForwardedFor   string `json:"forwarded_for,omitempty"`
}

// IsExpired reports whether the session is past its expiry at the given
// reference time. Redis TTL eviction timing is not exact, so callers must
// rely on this check rather than on key absence.
func (s *Session) IsExpired(reference time.Time) bool {
	if s == nil {
		return true
	}
	if reference.IsZero() {
		reference = time.Now()
	}
	return !s.ExpiresAt.After(reference)
}
