package ports

import (
	"context"
	"time"

	"github.com/verikey/otp-service/internal/core/domain"
)

// AuditEventInput is the DTO handed from the OTP manager to the audit
// pipeline.
type AuditEventInput struct {
	Type      domain.AuditEventType
	Principal domain.Principal
	Operation string
	At        time.Time
}

// AuditService processes OTP lifecycle events.
type AuditService interface {
	Process(ctx context.Context, event AuditEventInput) error
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error)
}
