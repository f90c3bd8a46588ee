package persistence

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/crypto/blake2b"

	"github.com/wanderlust-labs/destination-portal/internal/auth"
)

// RedisTokenStores hands out one token slot per browser key.
// Keys are hashed so the cookie value never appears in Redis.
type RedisTokenStores struct {
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewRedisTokenStores builds the factory. A zero ttl keeps slots until cleared.
func NewRedisTokenStores(r *Redis, prefix string, ttl time.Duration) *RedisTokenStores {
	return &RedisTokenStores{client: r.Client, prefix: prefix, ttl: ttl}
}

// For returns the slot for sessionKey. It satisfies auth.StoreFactory.
func (s *RedisTokenStores) For(sessionKey string) auth.TokenStore {
	return &redisTokenStore{client: s.client, key: s.Key(sessionKey), ttl: s.ttl}
}

// Key derives the Redis key for sessionKey.
func (s *RedisTokenStores) Key(sessionKey string) string {
	sum := blake2b.Sum256([]byte(sessionKey))
	return s.prefix + hex.EncodeToString(sum[:])
}

type redisTokenStore struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func (s *redisTokenStore) Get(ctx context.Context) (string, error) {
	val, err := s.client.Get(ctx, s.key).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("redis get token: %w", err)
	}
	return val, nil
}

func (s *redisTokenStore) Set(ctx context.Context, token string) error {
	if err := s.client.Set(ctx, s.key, token, s.ttl).Err(); err != nil {
		return fmt.Errorf("redis set token: %w", err)
	}
	return nil
}

func (s *redisTokenStore) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis clear token: %w", err)
	}
	return nil
}
