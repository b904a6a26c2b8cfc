package ports

import (
	"context"

	"github.com/verikey/otp-service/internal/core/domain"
)

// AuditRepository handles audit trail persistence.
type AuditRepository interface {
	// Insert persists an event to the otp_events audit collection.
	Insert(ctx context.Context, event *domain.AuditEvent) error

	// ListRecent returns up to limit events, newest first.
	ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error)
}
