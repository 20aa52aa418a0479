package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore persists state in Redis, for deployments where several
// storefront instances share one session
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore creates a Redis-backed store. All keys are namespaced
// under prefix to keep the shared database tidy.
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = "storefront"
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Get returns the value for key, or ErrKeyNotFound
func (s *RedisStore) Get(ctx context.Context, key string) (string, error) {
	val, err := s.client.Get(ctx, s.namespaced(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

// Set stores a single value
func (s *RedisStore) Set(ctx context.Context, key, value string) error {
	return s.client.Set(ctx, s.namespaced(key), value, 0).Err()
}

// SetMulti stores all pairs atomically via MSET
func (s *RedisStore) SetMulti(ctx context.Context, pairs map[string]string) error {
	if len(pairs) == 0 {
		return nil
	}
	args := make([]any, 0, len(pairs)*2)
	for k, v := range pairs {
		args = append(args, s.namespaced(k), v)
	}
	return s.client.MSet(ctx, args...).Err()
}

// Delete removes the given keys atomically
func (s *RedisStore) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	namespaced := make([]string, len(keys))
	for i, k := range keys {
		namespaced[i] = s.namespaced(k)
	}
	return s.client.Del(ctx, namespaced...).Err()
}

// Close closes the underlying Redis connection
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) namespaced(key string) string {
	return fmt.Sprintf("%s:%s", s.prefix, key)
}

var _ Store = (*RedisStore)(nil)
