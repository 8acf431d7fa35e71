package store

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"helptoheat/internal/ratelimit/models"
)

const keyPrefix = "helptoheat:ratelimit:"

// RedisStore counts requests in fixed windows shared by every instance.
type RedisStore struct {
	client redis.Cmdable
	now    func() time.Time
}

func NewRedis(client redis.Cmdable) *RedisStore {
	return &RedisStore{client: client, now: time.Now}
}

func (s *RedisStore) Allow(ctx context.Context, key string, limit models.Limit) (*models.Result, error) {
	now := s.now()
	windowStart := now.Truncate(limit.Window)
	resetAt := windowStart.Add(limit.Window)
	redisKey := keyPrefix + key + ":" + strconv.FormatInt(windowStart.Unix(), 10)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, redisKey)
		pipe.ExpireAt(ctx, redisKey, resetAt.Add(time.Second))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("increment rate limit counter: %w", err)
	}

	count := int(incr.Val())
	if count > limit.Requests {
		return &models.Result{
			Allowed:    false,
			Limit:      limit.Requests,
			ResetAt:    resetAt,
			RetryAfter: models.RetryAfterSeconds(resetAt, now),
		}, nil
	}
	return &models.Result{
		Allowed:   true,
		Limit:     limit.Requests,
		Remaining: limit.Requests - count,
		ResetAt:   resetAt,
	}, nil
}
