package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
	"github.com/verikey/otp-service/internal/infrastructure/db/memory"
)

// stubGenerator returns a scripted sequence of values.
type stubGenerator struct {
	values []string
	next   int
}

func (g *stubGenerator) Generate() (string, error) {
	if g.next >= len(g.values) {
		return "", errors.New("stub generator exhausted")
	}
	v := g.values[g.next]
	g.next++
	return v, nil
}

// stubSink records enqueued audit events.
type stubSink struct {
	events []ports.AuditEventInput
}

func (s *stubSink) Enqueue(event ports.AuditEventInput) {
	s.events = append(s.events, event)
}

// failingStore always rejects Put with a duplicate.
type failingStore struct{}

func (failingStore) Put(context.Context, domain.OtpCode) error {
	return domain.ErrDuplicateCode
}

func (failingStore) ConsumeIfValid(context.Context, string, time.Time, ports.ConsumeFilter) (*domain.OtpCode, error) {
	return nil, domain.ErrCodeNotFound
}

func newTestService(store ports.OtpStore, gen *stubGenerator, sink *stubSink, policy OtpPolicy) *otpService {
	svc := NewOtpService(store, gen, sink, policy, zerolog.Nop())
	return svc.(*otpService)
}

func TestOtpService_GenerateCode(t *testing.T) {
	store := memory.NewOtpStore()
	sink := &stubSink{}
	svc := newTestService(store, &stubGenerator{values: []string{"483920"}}, sink, OtpPolicy{TTL: time.Minute})

	start := time.Now()
	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("GenerateCode returned error: %v", err)
	}
	if res.Code != "483920" {
		t.Fatalf("unexpected code: %s", res.Code)
	}
	if res.ExpiresAt.Before(start.Add(time.Minute-time.Second)) || res.ExpiresAt.After(start.Add(time.Minute+time.Second)) {
		t.Fatalf("expiry not at now+TTL: %v", res.ExpiresAt)
	}
	if len(sink.events) != 1 || sink.events[0].Type != domain.AuditCodeGenerated {
		t.Fatalf("expected one generated audit event, got %+v", sink.events)
	}
	if sink.events[0].Principal != "u1" || sink.events[0].Operation != "withdraw" {
		t.Fatalf("audit event carries wrong identity: %+v", sink.events[0])
	}
}

func TestOtpService_GenerateCode_RetriesOnCollision(t *testing.T) {
	store := memory.NewOtpStore()
	sink := &stubSink{}
	gen := &stubGenerator{values: []string{"111111", "111111", "222222"}}
	svc := newTestService(store, gen, sink, OtpPolicy{TTL: time.Minute, MaxAttempts: 5})

	if _, err := svc.GenerateCode(context.Background(), "u1", "withdraw"); err != nil {
		t.Fatalf("first generation failed: %v", err)
	}
	res, err := svc.GenerateCode(context.Background(), "u2", "withdraw")
	if err != nil {
		t.Fatalf("expected retry to recover from collision: %v", err)
	}
	if res.Code != "222222" {
		t.Fatalf("expected regenerated value, got %s", res.Code)
	}
}

func TestOtpService_GenerateCode_Exhausted(t *testing.T) {
	sink := &stubSink{}
	gen := &stubGenerator{values: []string{"1", "2", "3"}}
	svc := newTestService(failingStore{}, gen, sink, OtpPolicy{TTL: time.Minute, MaxAttempts: 3})

	_, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if !errors.Is(err, domain.ErrGenerationExhausted) {
		t.Fatalf("expected ErrGenerationExhausted, got %v", err)
	}
	if len(sink.events) != 0 {
		t.Fatalf("no audit event expected on failure, got %+v", sink.events)
	}
}

func TestOtpService_ValidateCode_SingleUse(t *testing.T) {
	store := memory.NewOtpStore()
	sink := &stubSink{}
	svc := newTestService(store, &stubGenerator{values: []string{"483920"}}, sink, OtpPolicy{TTL: time.Minute, StrictOperation: true})

	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	rec, err := svc.ValidateCode(context.Background(), "u1", res.Code, "withdraw")
	if err != nil {
		t.Fatalf("first validation failed: %v", err)
	}
	if rec.Operation != "withdraw" || rec.Principal != "u1" {
		t.Fatalf("unexpected record: %+v", rec)
	}

	if _, err := svc.ValidateCode(context.Background(), "u1", res.Code, "withdraw"); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("second validation must fail uniformly, got %v", err)
	}

	if len(sink.events) != 2 || sink.events[1].Type != domain.AuditCodeConsumed {
		t.Fatalf("expected generated+consumed audit events, got %+v", sink.events)
	}
}

func TestOtpService_ValidateCode_UnknownCode(t *testing.T) {
	store := memory.NewOtpStore()
	svc := newTestService(store, &stubGenerator{}, &stubSink{}, OtpPolicy{TTL: time.Minute})

	if _, err := svc.ValidateCode(context.Background(), "u1", "000000", "withdraw"); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode, got %v", err)
	}
}

func TestOtpService_ValidateCode_Expired(t *testing.T) {
	store := memory.NewOtpStore()
	svc := newTestService(store, &stubGenerator{values: []string{"C1"}}, &stubSink{}, OtpPolicy{TTL: time.Second})

	base := time.Now()
	svc.now = func() time.Time { return base }

	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	svc.now = func() time.Time { return base.Add(2 * time.Second) }

	_, err = svc.ValidateCode(context.Background(), "u1", res.Code, "withdraw")
	if !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("expired code must be indistinguishable from unknown, got %v", err)
	}
}

func TestOtpService_ValidateCode_StrictOperation(t *testing.T) {
	store := memory.NewOtpStore()
	svc := newTestService(store, &stubGenerator{values: []string{"483920"}}, &stubSink{}, OtpPolicy{TTL: time.Minute, StrictOperation: true})

	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	if _, err := svc.ValidateCode(context.Background(), "u1", res.Code, "transfer"); !errors.Is(err, domain.ErrOperationMismatch) {
		t.Fatalf("expected ErrOperationMismatch, got %v", err)
	}

	// The mismatch must not have consumed the code.
	if _, err := svc.ValidateCode(context.Background(), "u1", res.Code, "withdraw"); err != nil {
		t.Fatalf("code should survive an operation mismatch: %v", err)
	}
}

func TestOtpService_ValidateCode_LooseOperation(t *testing.T) {
	store := memory.NewOtpStore()
	svc := newTestService(store, &stubGenerator{values: []string{"483920"}}, &stubSink{}, OtpPolicy{TTL: time.Minute})

	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// Without strict binding the tag is returned, not enforced; checking it
	// is the caller's responsibility.
	rec, err := svc.ValidateCode(context.Background(), "u1", res.Code, "transfer")
	if err != nil {
		t.Fatalf("loose mode should accept the code: %v", err)
	}
	if rec.Operation != "withdraw" {
		t.Fatalf("expected stored tag, got %s", rec.Operation)
	}
}

func TestOtpService_ValidateCode_BindPrincipal(t *testing.T) {
	store := memory.NewOtpStore()
	svc := newTestService(store, &stubGenerator{values: []string{"483920"}}, &stubSink{}, OtpPolicy{TTL: time.Minute, BindPrincipal: true})

	res, err := svc.GenerateCode(context.Background(), "u1", "withdraw")
	if err != nil {
		t.Fatalf("generate failed: %v", err)
	}

	// A foreign principal sees the same failure as for an unknown code.
	if _, err := svc.ValidateCode(context.Background(), "intruder", res.Code, "withdraw"); !errors.Is(err, domain.ErrInvalidOrExpiredCode) {
		t.Fatalf("expected ErrInvalidOrExpiredCode for foreign principal, got %v", err)
	}

	if _, err := svc.ValidateCode(context.Background(), "u1", res.Code, "withdraw"); err != nil {
		t.Fatalf("owner validation failed: %v", err)
	}
}
