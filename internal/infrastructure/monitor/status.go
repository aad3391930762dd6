package monitor

import "time"

type Status struct {
	Redis       bool      `json:"redis"`
	Audit       bool      `json:"audit"`
	AuditEvents int       `json:"audit_events"`
	LastCheck   time.Time `json:"last_check"`
}
