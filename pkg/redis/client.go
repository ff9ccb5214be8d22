package redis

import (
	"context"

	"github.com/go-redis/redis/v8"
)

// Client is an alias so callers don't import go-redis directly.
type Client = redis.Client

// Config holds Redis connection settings.
type Config struct {
	Addr     string
	Password string
	DB       int
}

// NewRedisClient creates a Redis client.
func NewRedisClient(cfg *Config) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

// Ping verifies the connection.
func Ping(ctx context.Context, client *redis.Client) error {
	return client.Ping(ctx).Err()
}

// Close closes the client.
func Close(client *redis.Client) error {
	return client.Close()
}
