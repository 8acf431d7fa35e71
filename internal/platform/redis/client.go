// Package redis opens the shared go-redis client used by the answer store
// and the rate limiter.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"helptoheat/internal/platform/config"
)

// Client embeds the go-redis client so callers can pass it where a
// redis.Cmdable is expected.
type Client struct {
	*redis.Client
}

// New connects and pings. A blank URL means Redis is not configured and
// yields a nil client.
func New(ctx context.Context, cfg config.RedisConfig) (*Client, error) {
	if cfg.URL == "" {
		return nil, nil
	}
	opts, err := Options(cfg)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return &Client{Client: rdb}, nil
}

// Options parses the URL and layers the pool settings on top. Zero values
// keep the go-redis defaults, except MinIdleConns which is always applied.
func Options(cfg config.RedisConfig) (*redis.Options, error) {
	opts, err := redis.ParseURL(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	opts.MinIdleConns = cfg.MinIdleConns
	for _, o := range []struct {
		set bool
		fn  func()
	}{
		{cfg.PoolSize > 0, func() { opts.PoolSize = cfg.PoolSize }},
		{cfg.DialTimeout > 0, func() { opts.DialTimeout = cfg.DialTimeout }},
		{cfg.ReadTimeout > 0, func() { opts.ReadTimeout = cfg.ReadTimeout }},
		{cfg.WriteTimeout > 0, func() { opts.WriteTimeout = cfg.WriteTimeout }},
	} {
		if o.set {
			o.fn()
		}
	}
	return opts, nil
}

func (c *Client) Health(ctx context.Context) error {
	if err := c.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis health: %w", err)
	}
	return nil
}
