package usecase

// SecurityEvent describes a suspicious or degraded condition observed on the
// validation path.
type SecurityEvent struct {
	Kind      string
	SessionID string
	UserID    string
	IP        string
	Reason    string
}

// AuditTrail abstracts the audit recorder so use cases stay storage-agnostic.
// Implementations must never block the caller; dropping an event is
// preferable to stalling request validation.
type AuditTrail interface {
	Record(event SecurityEvent)
}
