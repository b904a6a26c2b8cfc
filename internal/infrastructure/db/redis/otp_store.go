package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/verikey/otp-service/internal/core/domain"
	"github.com/verikey/otp-service/internal/core/ports"
)

// OtpStore is the production code store. Live-code uniqueness and expiry
// ride on Redis primitives (SET NX PX); consumption runs server-side as a
// Lua script, so lookup, filter checks and deletion form one atomic step
// for all clients of the same Redis instance.
type OtpStore struct {
	client *redis.Client
}

// NewOtpStore creates an OtpStore wrapping the given Redis client.
func NewOtpStore(client *redis.Client) *OtpStore {
	return &OtpStore{client: client}
}

// storedCode is the JSON payload kept under each code key. The code value
// itself only ever appears in the key.
type storedCode struct {
	Principal   string `json:"principal"`
	Operation   string `json:"operation"`
	CreatedAtMs int64  `json:"created_at_ms"`
	ExpiresAtMs int64  `json:"expires_at_ms"`
}

// consumeScript implements ConsumeIfValid. Results:
//
//	nil          — no live entry (absent or expired)
//	"owner"      — principal filter mismatch
//	"operation"  — operation filter mismatch (entry kept)
//	JSON payload — consumed, entry deleted
//
// ARGV: [1] now in unix milliseconds, [2] expected principal or "",
// [3] expected operation or "".
var consumeScript = redis.NewScript(`
local raw = redis.call('GET', KEYS[1])
if not raw then
    return false
end
local rec = cjson.decode(raw)
if rec.expires_at_ms <= tonumber(ARGV[1]) then
    redis.call('DEL', KEYS[1])
    return false
end
if ARGV[2] ~= '' and rec.principal ~= ARGV[2] then
    return 'owner'
end
if ARGV[3] ~= '' and rec.operation ~= ARGV[3] then
    return 'operation'
end
redis.call('DEL', KEYS[1])
return raw
`)

// Put stores a fresh code under its value with the record's TTL. SET NX
// rejects collisions with live entries; expired keys are gone by then.
func (s *OtpStore) Put(ctx context.Context, rec domain.OtpCode) error {
	payload, err := json.Marshal(storedCode{
		Principal:   string(rec.Principal),
		Operation:   rec.Operation,
		CreatedAtMs: rec.CreatedAt.UnixMilli(),
		ExpiresAtMs: rec.ExpiresAt.UnixMilli(),
	})
	if err != nil {
		return fmt.Errorf("otp store: marshal: %w", err)
	}

	ttl := rec.ExpiresAt.Sub(rec.CreatedAt)
	ok, err := s.client.SetNX(ctx, s.key(rec.Value), payload, ttl).Result()
	if err != nil {
		return fmt.Errorf("otp store: put: %w", err)
	}
	if !ok {
		return domain.ErrDuplicateCode
	}
	return nil
}

// ConsumeIfValid atomically redeems the code as of now.
func (s *OtpStore) ConsumeIfValid(ctx context.Context, value string, now time.Time, filter ports.ConsumeFilter) (*domain.OtpCode, error) {
	res, err := consumeScript.Run(ctx, s.client,
		[]string{s.key(value)},
		now.UnixMilli(), string(filter.Principal), filter.Operation,
	).Result()
	if err == redis.Nil {
		return nil, domain.ErrCodeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("otp store: consume: %w", err)
	}

	raw, ok := res.(string)
	if !ok {
		return nil, fmt.Errorf("otp store: unexpected script result %T", res)
	}
	switch raw {
	case "owner":
		return nil, domain.ErrCodeNotFound
	case "operation":
		return nil, domain.ErrOperationMismatch
	}

	var sc storedCode
	if err := json.Unmarshal([]byte(raw), &sc); err != nil {
		return nil, fmt.Errorf("otp store: unmarshal: %w", err)
	}
	return &domain.OtpCode{
		Value:     value,
		Principal: domain.Principal(sc.Principal),
		Operation: sc.Operation,
		CreatedAt: time.UnixMilli(sc.CreatedAtMs).UTC(),
		ExpiresAt: time.UnixMilli(sc.ExpiresAtMs).UTC(),
	}, nil
}

func (s *OtpStore) key(value string) string {
	return "otp:code:" + value
}
