package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/you/foodauth/domain"
)

// consumeScript deletes the challenge only when the stored code matches,
// so two concurrent verifications cannot both succeed.
var consumeScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
local c = cjson.decode(raw)
if c.code == ARGV[1] then
  redis.call("DEL", KEYS[1])
  return 1
end
return 0
`)

// deleteScript drops the challenge only if it still holds ARGV[1]
var deleteScript = redis.NewScript(`
local raw = redis.call("GET", KEYS[1])
if not raw then
  return 0
end
if cjson.decode(raw).code == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisOTPStore implements domain.OTPStore. Keys expire with the challenge,
// so an expired challenge is simply absent.
type RedisOTPStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisOTPStore(client redis.UniversalClient) *RedisOTPStore {
	return &RedisOTPStore{client: client, prefix: "otp:"}
}

var _ domain.OTPStore = (*RedisOTPStore)(nil)

type redisChallenge struct {
	Code      string    `json:"code"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Save implements domain.OTPStore
func (s *RedisOTPStore) Save(ctx context.Context, c *domain.OTPChallenge) error {
	ttl := time.Until(c.ExpiresAt)
	if ttl <= 0 {
		return s.client.Del(ctx, s.prefix+c.Phone).Err()
	}

	data, err := json.Marshal(redisChallenge{Code: c.Code, ExpiresAt: c.ExpiresAt})
	if err != nil {
		return fmt.Errorf("failed to marshal otp: %w", err)
	}
	return s.client.Set(ctx, s.prefix+c.Phone, data, ttl).Err()
}

// Consume implements domain.OTPStore
func (s *RedisOTPStore) Consume(ctx context.Context, phone, code string) (bool, error) {
	n, err := consumeScript.Run(ctx, s.client, []string{s.prefix + phone}, code).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Delete implements domain.OTPStore
func (s *RedisOTPStore) Delete(ctx context.Context, phone, code string) error {
	return deleteScript.Run(ctx, s.client, []string{s.prefix + phone}, code).Err()
}
