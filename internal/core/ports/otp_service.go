package ports

import (
	"context"
	"time"

	"github.com/verikey/otp-service/internal/core/domain"
)

// GenerateResult is returned by the service after issuing a code. Delivery
// of the value to its recipient is the caller's concern.
type GenerateResult struct {
	Code      string
	ExpiresAt time.Time
}

// OtpService orchestrates the OTP lifecycle.
type OtpService interface {
	// GenerateCode draws an unpredictable value, stores it with expiry and
	// returns it. Fails with domain.ErrGenerationExhausted when the
	// generator keeps colliding past the retry budget.
	GenerateCode(ctx context.Context, principal domain.Principal, operation string) (*GenerateResult, error)

	// ValidateCode consumes the code exactly once and returns the stored
	// record as proof. Every not-found-class failure surfaces uniformly as
	// domain.ErrInvalidOrExpiredCode; domain.ErrOperationMismatch is
	// possible only with strict operation binding enabled.
	ValidateCode(ctx context.Context, principal domain.Principal, value, operation string) (*domain.OtpCode, error)
}
