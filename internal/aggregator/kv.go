package aggregator

import (
	"context"
	"time"

	goredis "github.com/go-redis/redis/v8"
)

// KVStore abstracts the cache backend so tests can swap in a local map.
type KVStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// ErrCacheMiss is returned by Get when the key does not exist.
var ErrCacheMiss = goredis.Nil

// RedisKVStore backs KVStore with Redis.
type RedisKVStore struct {
	client *goredis.Client
}

// NewRedisKVStore creates a Redis-backed store.
func NewRedisKVStore(client *goredis.Client) *RedisKVStore {
	return &RedisKVStore{client: client}
}

func (s *RedisKVStore) Get(ctx context.Context, key string) (string, error) {
	return s.client.Get(ctx, key).Result()
}

func (s *RedisKVStore) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	return s.client.Set(ctx, key, value, ttl).Err()
}

func (s *RedisKVStore) Delete(ctx context.Context, key string) error {
	return s.client.Del(ctx, key).Err()
}
