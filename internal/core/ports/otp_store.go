package ports

import (
	"context"
	"time"

	"github.com/verikey/otp-service/internal/core/domain"
)

// ConsumeFilter narrows which live code a ConsumeIfValid call may redeem.
// Zero-value fields are not checked.
type ConsumeFilter struct {
	// Principal, when non-empty, requires the stored code to belong to this
	// principal. A mismatch reports domain.ErrCodeNotFound — a code owned
	// by someone else must look nonexistent.
	Principal domain.Principal
	// Operation, when non-empty, requires the stored tag to match. A
	// mismatch reports domain.ErrOperationMismatch and leaves the code
	// unconsumed.
	Operation string
}

// OtpStore persists outstanding codes keyed by code value.
//
// ConsumeIfValid is the system's core concurrency contract: lookup, filter
// checks and consumption happen in a single atomic step, so for any given
// code value exactly one concurrent call may succeed. Absent, expired and
// already-consumed codes are indistinguishable (all domain.ErrCodeNotFound).
type OtpStore interface {
	// Put stores a fresh code. Fails with domain.ErrDuplicateCode when the
	// value collides with a live (unexpired, unconsumed) entry.
	Put(ctx context.Context, rec domain.OtpCode) error

	// ConsumeIfValid atomically redeems the code as of now, returning the
	// stored record on success.
	ConsumeIfValid(ctx context.Context, value string, now time.Time, filter ConsumeFilter) (*domain.OtpCode, error)
}
