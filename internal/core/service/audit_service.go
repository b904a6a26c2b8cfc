package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
)

const (
	defaultAuditLimit = 100
	maxAuditLimit     = 500
)

type auditService struct {
	repo ports.AuditRepository
	log  zerolog.Logger
}

// NewAuditService returns an AuditService implementation.
func NewAuditService(repo ports.AuditRepository, log zerolog.Logger) ports.AuditService {
	return &auditService{repo: repo, log: log}
}

// Process persists a single lifecycle event.
func (s *auditService) Process(ctx context.Context, in ports.AuditEventInput) error {
	event := &domain.AuditEvent{
		ID:        uuid.NewString(),
		Type:      in.Type,
		Principal: in.Principal,
		Operation: in.Operation,
		At:        in.At,
	}

	if err := s.repo.Insert(ctx, event); err != nil {
		return fmt.Errorf("audit event: %w", err)
	}

	s.log.Debug().
		Str("type", string(in.Type)).
		Str("operation", in.Operation).
		Msg("audit event recorded")
	return nil
}

// ListRecent returns up to limit events, newest first. Limit is clamped to
// [1, maxAuditLimit]; non-positive values fall back to the default.
func (s *auditService) ListRecent(ctx context.Context, limit int64) ([]*domain.AuditEvent, error) {
	if limit <= 0 {
		limit = defaultAuditLimit
	}
	if limit > maxAuditLimit {
		limit = maxAuditLimit
	}
	return s.repo.ListRecent(ctx, limit)
}
