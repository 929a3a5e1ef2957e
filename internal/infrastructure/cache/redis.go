// Package cache opens the Redis client shared by sessions and idempotency.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const defaultPingTimeout = 5 * time.Second

type Options struct {
	Addr     string
	Password string
	DB       int
	// PingTimeout bounds the startup check; zero means five seconds.
	PingTimeout time.Duration
}

// OpenRedis connects and pings once. A client that fails the ping is closed
// before returning.
func OpenRedis(ctx context.Context, o Options) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: o.Addr, Password: o.Password, DB: o.DB})

	timeout := o.PingTimeout
	if timeout <= 0 {
		timeout = defaultPingTimeout
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis %s db=%d: %w", o.Addr, o.DB, err)
	}
	return rdb, nil
}
