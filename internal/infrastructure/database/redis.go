package database

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient wraps the go-redis client used as the ephemeral state store.
type RedisClient struct{ *redis.Client }

// NewRedis builds a client for the configured Redis instance.
func NewRedis(addr, password string, db int) *RedisClient {
	return &RedisClient{redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})}
}

// Ping verifies the connection, used as a startup health gate.
func (c *RedisClient) Ping(ctx context.Context) error { return c.Client.Ping(ctx).Err() }
