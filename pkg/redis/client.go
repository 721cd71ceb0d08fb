// Package redis wires the shared go-redis client used for API sessions and
// rate limiting.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/Alijeyrad/clinica_backend/config"
)

// Options maps the redis config section onto go-redis options. Zero pool
// sizes and timeouts fall back to 10 connections (2 idle), a 5s dial and
// 3s reads and writes.
func Options(c config.RedisConfig) *goredis.Options {
	return &goredis.Options{
		Addr:         c.Addr,
		Username:     c.Username,
		Password:     c.Password,
		DB:           c.DB,
		PoolSize:     positive(c.PoolSize, 10),
		MinIdleConns: positive(c.MinIdleConns, 2),
		DialTimeout:  secondsOr(c.DialTimeoutSeconds, 5*time.Second),
		ReadTimeout:  secondsOr(c.ReadTimeoutSeconds, 3*time.Second),
		WriteTimeout: secondsOr(c.WriteTimeoutSeconds, 3*time.Second),
	}
}

// Connect dials and pings. The caller owns the returned client.
func Connect(ctx context.Context, c config.RedisConfig) (*goredis.Client, error) {
	if c.Addr == "" {
		return nil, errors.New("redis: addr is empty")
	}
	rdb := goredis.NewClient(Options(c))
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis: ping %s: %w", c.Addr, err)
	}
	return rdb, nil
}

func positive(n, def int) int {
	if n > 0 {
		return n
	}
	return def
}

func secondsOr(n int, def time.Duration) time.Duration {
	if n > 0 {
		return time.Duration(n) * time.Second
	}
	return def
}
