package domain

import "time"

// Audit actions recorded by the authentication service.
const (
	AuditLoginGranted     = "login_granted"
	AuditLoginDenied      = "login_denied"
	AuditSessionDestroyed = "session_destroyed"
	AuditRequestRejected  = "request_rejected"
)

// AuditEvent captures an authentication outcome for the write-behind trail.
type AuditEvent struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	SysName   string    `json:"sys_name,omitempty"`
	Username  string    `json:"username,omitempty"`
	UserID    int64     `json:"user_id,omitempty"`
	Detail    string    `json:"detail,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
