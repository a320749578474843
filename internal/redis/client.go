// Package redisclient builds the Redis connection used for per-shift
// reservation locks.
package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Lock acquire/release are single round trips inside the booking path, so
// timeouts stay tight: a slow Redis should surface as a failed reservation
// attempt, not a stalled request.
const (
	dialTimeout  = 3 * time.Second
	opTimeout    = 2 * time.Second
	poolSize     = 10
	minIdleConns = 1
	pingTimeout  = 5 * time.Second
)

// NewRedisClient connects, verifies the connection with a ping, and returns
// a client ready for the shift locker.
func NewRedisClient(addr, username, password string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:         addr,
		Username:     username,
		Password:     password,
		DB:           0,
		DialTimeout:  dialTimeout,
		ReadTimeout:  opTimeout,
		WriteTimeout: opTimeout,
		PoolSize:     poolSize,
		MinIdleConns: minIdleConns,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
