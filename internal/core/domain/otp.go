package domain

import (
	"errors"
	"time"
)

var (
	// ErrCodeNotFound is the store-level result for a code that is absent,
	// expired, already consumed, or bound to a different principal. The
	// cases are deliberately indistinguishable.
	ErrCodeNotFound = errors.New("code not found")

	// ErrDuplicateCode signals that a freshly generated value collided with
	// a live entry. Recovered by bounded retry inside the manager; never
	// reaches a caller.
	ErrDuplicateCode = errors.New("duplicate code")

	// ErrInvalidOrExpiredCode is the uniform user-visible validation
	// failure. Callers cannot tell "never existed", "expired" and "already
	// used" apart.
	ErrInvalidOrExpiredCode = errors.New("invalid or expired code")

	// ErrOperationMismatch is returned only when strict operation binding
	// is enabled and the stored tag differs from the expected one.
	ErrOperationMismatch = errors.New("operation mismatch")

	// ErrGenerationExhausted means the generator kept colliding until the
	// retry budget ran out. It indicates the code space is too small for
	// the current load.
	ErrGenerationExhausted = errors.New("code generation exhausted")
)

// Principal is the authenticated identity attached to a request by the auth
// middleware. The core treats it as an opaque comparable token.
type Principal string

// OtpCode is a single-use code bound to a principal and an operation tag.
//
// Lifecycle: created by GenerateCode, consumed at most once by ValidateCode.
// A code past ExpiresAt behaves as if it never existed.
type OtpCode struct {
	Value     string    `json:"-"`
	Principal Principal `json:"principal"`
	Operation string    `json:"operation"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the code is past its expiry as of now.
func (c OtpCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
