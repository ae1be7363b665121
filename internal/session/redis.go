package session

import (
	"context"
	"fmt"
	"time"

	"fuelbot/internal/cache"
	"fuelbot/internal/nlp"

	"github.com/redis/go-redis/v9"
)

// RedisStore keeps category selections in redis so multiple bot instances
// share them. Entries expire after the configured TTL.
type RedisStore struct {
	cache *cache.Redis
	ttl   time.Duration
}

// NewRedisStore wraps the shared redis connection.
func NewRedisStore(cache *cache.Redis, ttl time.Duration) *RedisStore {
	return &RedisStore{cache: cache, ttl: ttl}
}

func sessionKey(sender string) string {
	return fmt.Sprintf("session:category:%s", sender)
}

func (s *RedisStore) Remember(ctx context.Context, sender string, category nlp.Category) error {
	if err := s.cache.Client().Set(ctx, sessionKey(sender), string(category), s.ttl).Err(); err != nil {
		return fmt.Errorf("remember category for %s: %w", sender, err)
	}
	return nil
}

func (s *RedisStore) Lookup(ctx context.Context, sender string) (nlp.Category, bool, error) {
	val, err := s.cache.Client().Get(ctx, sessionKey(sender)).Result()
	if err == redis.Nil {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("lookup category for %s: %w", sender, err)
	}
	return nlp.Category(val), true, nil
}

func (s *RedisStore) Forget(ctx context.Context, sender string) error {
	if err := s.cache.Client().Del(ctx, sessionKey(sender)).Err(); err != nil {
		return fmt.Errorf("forget category for %s: %w", sender, err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)
