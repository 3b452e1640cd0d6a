package otp

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// compareAndDelete deletes the key only when its value matches, so two
// concurrent verifies cannot both succeed against the same code.
var compareAndDelete = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisStore keeps challenges in redis; expiry is enforced by redis TTL
// eviction, so a verify against an expired key fails closed.
type RedisStore struct {
	client *redis.Client
}

func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Set(ctx context.Context, key, digest string, ttl time.Duration) error {
	return s.client.Set(ctx, key, digest, ttl).Err()
}

func (s *RedisStore) CompareAndDelete(ctx context.Context, key, digest string) (bool, error) {
	n, err := compareAndDelete.Run(ctx, s.client, []string{key}, digest).Int()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
