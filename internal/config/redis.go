package config

// Redis backs two optional concerns: the login rate limiter and the
// read-response cache. Both degrade gracefully when no server can be
// reached, so NewRedisClient returns nil on failure rather than an
// error.

import (
	"context"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// NewRedisClient builds a Redis client from REDIS_ADDR (host:port,
// default localhost:6379), REDIS_PASSWORD, and REDIS_DB. It pings the
// server with a short timeout and returns nil when the ping fails;
// callers must treat nil as "caching and rate limiting disabled".
func NewRedisClient() *redis.Client {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	dbNum := 0
	if s := os.Getenv("REDIS_DB"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			dbNum = n
		}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       dbNum,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil
	}
	return client
}
