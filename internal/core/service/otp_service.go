package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/verikey/otp-service/internal/api/metrics"
	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
	"github.com/verikey/otp-service/pkg/otpgen"
)

// AuditSink receives lifecycle events for asynchronous persistence (the
// queue dispatcher in production).
type AuditSink interface {
	Enqueue(event ports.AuditEventInput)
}

// OtpPolicy carries the deployment-time policy knobs of the manager.
type OtpPolicy struct {
	// TTL is how long a generated code stays redeemable.
	TTL time.Duration
	// MaxAttempts bounds regeneration on value collisions. Exhausting it
	// means the configured code space is too small for the load.
	MaxAttempts int
	// BindPrincipal requires the validating principal to equal the
	// generating one (codes stop being transferable).
	BindPrincipal bool
	// StrictOperation cross-checks the stored operation tag at validation.
	StrictOperation bool
}

type otpService struct {
	store  ports.OtpStore
	gen    otpgen.Generator
	audit  AuditSink
	policy OtpPolicy
	log    zerolog.Logger
	now    func() time.Time
}

// NewOtpService returns an OtpService implementation.
func NewOtpService(store ports.OtpStore, gen otpgen.Generator, audit AuditSink, policy OtpPolicy, log zerolog.Logger) ports.OtpService {
	if policy.TTL <= 0 {
		policy.TTL = 5 * time.Minute
	}
	if policy.MaxAttempts <= 0 {
		policy.MaxAttempts = 5
	}
	return &otpService{
		store:  store,
		gen:    gen,
		audit:  audit,
		policy: policy,
		log:    log,
		now:    time.Now,
	}
}

// GenerateCode draws a value, stores it with expiry, and returns it. A
// collision with a live code triggers regeneration up to MaxAttempts.
func (s *otpService) GenerateCode(ctx context.Context, principal domain.Principal, operation string) (*ports.GenerateResult, error) {
	for attempt := 1; attempt <= s.policy.MaxAttempts; attempt++ {
		value, err := s.gen.Generate()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		now := s.now().UTC()
		rec := domain.OtpCode{
			Value:     value,
			Principal: principal,
			Operation: operation,
			CreatedAt: now,
			ExpiresAt: now.Add(s.policy.TTL),
		}

		err = s.store.Put(ctx, rec)
		if errors.Is(err, domain.ErrDuplicateCode) {
			metrics.GenerationRetriesTotal.Inc()
			s.log.Warn().
				Int("attempt", attempt).
				Str("operation", operation).
				Msg("code collision, regenerating")
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}

		metrics.CodesGeneratedTotal.WithLabelValues(operation).Inc()
		s.audit.Enqueue(ports.AuditEventInput{
			Type:      domain.AuditCodeGenerated,
			Principal: principal,
			Operation: operation,
			At:        now,
		})
		return &ports.GenerateResult{Code: value, ExpiresAt: rec.ExpiresAt}, nil
	}

	// Pathological collision rate: the code space cannot sustain the load.
	s.log.Error().
		Int("max_attempts", s.policy.MaxAttempts).
		Str("operation", operation).
		Msg("code generation exhausted retry budget")
	return nil, domain.ErrGenerationExhausted
}

// ValidateCode consumes the code exactly once. The store resolves all races:
// a cancelled caller whose consume already committed leaves the code
// consumed, there is no rollback.
func (s *otpService) ValidateCode(ctx context.Context, principal domain.Principal, value, operation string) (*domain.OtpCode, error) {
	filter := ports.ConsumeFilter{}
	if s.policy.BindPrincipal {
		filter.Principal = principal
	}
	if s.policy.StrictOperation {
		filter.Operation = operation
	}

	rec, err := s.store.ConsumeIfValid(ctx, value, s.now().UTC(), filter)
	switch {
	case errors.Is(err, domain.ErrOperationMismatch):
		metrics.CodesValidatedTotal.WithLabelValues("operation_mismatch").Inc()
		return nil, domain.ErrOperationMismatch
	case errors.Is(err, domain.ErrCodeNotFound):
		// Absent, expired, consumed and foreign-owned all collapse here.
		metrics.CodesValidatedTotal.WithLabelValues("rejected").Inc()
		return nil, domain.ErrInvalidOrExpiredCode
	case err != nil:
		return nil, fmt.Errorf("validate code: %w", err)
	}

	metrics.CodesValidatedTotal.WithLabelValues("ok").Inc()
	s.audit.Enqueue(ports.AuditEventInput{
		Type:      domain.AuditCodeConsumed,
		Principal: rec.Principal,
		Operation: rec.Operation,
		At:        s.now().UTC(),
	})
	return rec, nil
}
