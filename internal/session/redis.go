package session

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "admin_session:"

// RedisStore persists session records in Redis with a TTL matching the
// session timeout, so abandoned sessions expire server-side as well.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func redisKey(token string) string {
	return redisKeyPrefix + token
}

// Get returns the record for token, or (nil, nil) if absent. A stored value
// that fails to parse is cleared and reported as absent.
func (s *RedisStore) Get(ctx context.Context, token string) (*Record, error) {
	raw, err := s.client.Get(ctx, redisKey(token)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		_ = s.Clear(ctx, token)
		return nil, nil
	}
	return &rec, nil
}

// Put stores the record under token with the session timeout as TTL.
func (s *RedisStore) Put(ctx context.Context, token string, rec Record) error {
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(token), raw, Timeout).Err(); err != nil {
		return fmt.Errorf("put session: %w", err)
	}
	return nil
}

// Clear removes the record for token.
func (s *RedisStore) Clear(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, redisKey(token)).Err(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return nil
}
