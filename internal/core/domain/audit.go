package domain

import "time"

// AuditEventType labels what happened to a code.
type AuditEventType string

const (
	AuditCodeGenerated AuditEventType = "code_generated"
	AuditCodeConsumed  AuditEventType = "code_consumed"
)

// AuditEvent records a single OTP lifecycle transition. Code values are
// never stored in the trail.
type AuditEvent struct {
	ID        string         `json:"id"`
	Type      AuditEventType `json:"type"`
	Principal Principal      `json:"principal"`
	Operation string         `json:"operation"`
	At        time.Time      `json:"at"`
}
