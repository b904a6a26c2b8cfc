// Package memory provides an in-process OtpStore used as the development
// and test backend. Atomicity is a single mutex; expired entries are
// reaped lazily on access.
package memory

import (
	"context"
	"sync"
	"time"

	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
)

type OtpStore struct {
	mu    sync.Mutex
	codes map[string]domain.OtpCode
}

func NewOtpStore() *OtpStore {
	return &OtpStore{codes: make(map[string]domain.OtpCode)}
}

// Put stores a fresh code, rejecting collisions with live entries. An
// expired entry under the same value is overwritten.
func (s *OtpStore) Put(_ context.Context, rec domain.OtpCode) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.codes[rec.Value]; ok && !existing.Expired(rec.CreatedAt) {
		return domain.ErrDuplicateCode
	}
	s.codes[rec.Value] = rec
	return nil
}

// ConsumeIfValid redeems the code under the store mutex, so exactly one
// concurrent caller can observe success for a given value. Consumption
// deletes the entry; a repeated call is indistinguishable from an unknown
// code.
func (s *OtpStore) ConsumeIfValid(_ context.Context, value string, now time.Time, filter ports.ConsumeFilter) (*domain.OtpCode, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.codes[value]
	if !ok {
		return nil, domain.ErrCodeNotFound
	}
	if rec.Expired(now) {
		delete(s.codes, value)
		return nil, domain.ErrCodeNotFound
	}
	if filter.Principal != "" && rec.Principal != filter.Principal {
		// A code owned by someone else must look nonexistent.
		return nil, domain.ErrCodeNotFound
	}
	if filter.Operation != "" && rec.Operation != filter.Operation {
		// Left unconsumed: the holder may still redeem it for the right
		// operation.
		return nil, domain.ErrOperationMismatch
	}

	delete(s.codes, value)
	return &rec, nil
}

// Len reports the number of stored entries, live or expired. Used by tests.
func (s *OtpStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.codes)
}
