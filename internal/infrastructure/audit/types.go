package audit

import (
	"time"

	"github.com/google/uuid"
)

const (
	KindFingerprintMismatch = "fingerprint_mismatch"
	KindStoreUnavailable    = "store_unavailable"
	KindSessionPurged       = "session_purged"
)

// Event is a security-relevant observation recorded for operators. The
// routing behavior never depends on it; the trail only distinguishes
// "nobody is logged in" from "something is wrong".
type Event struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	SessionID string    `json:"session_id,omitempty"`
	UserID    string    `json:"user_id,omitempty"`
	IP        string    `json:"ip,omitempty"`
	Reason    string    `json:"reason,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

func (e *Event) normalize() {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.Timestamp.IsZero() {
		e.Timestamp = time.Now()
	}
}
