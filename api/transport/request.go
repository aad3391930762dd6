package transport

// SessionStartRequest is sent by the authentication collaborator after a
// successful sign-in. The device attributes are the ones it observed on the
// sign-in request; they seed the session fingerprint.
type SessionStartRequest struct {
	UserID         string `json:"user_id"`
	IP             string `json:"ip"`
	UserAgent      string `json:"user_agent"`
	AcceptLanguage string `json:"accept_language"`
	ForwardedFor   string `json:"forwarded_for,omitempty"`
}

// SessionStartResponse returns the issued session to the collaborator.
type SessionStartResponse struct {
	SessionID string `json:"session_id"`
	UserID    string `json:"user_id"`
	ExpiresAt string `json:"expires_at"`
}

// InvalidateResponse reports how many sessions a bulk invalidation removed.
type InvalidateResponse struct {
	UserID  string `json:"user_id"`
	Removed int    `json:"removed"`
}
