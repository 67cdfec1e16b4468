package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

type cmdable interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	PExpire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	PTTL(ctx context.Context, key string) *redis.DurationCmd
}

// RedisStore shares counters between instances. The first hit in a window
// sets the key's expiry.
type RedisStore struct {
	client cmdable
}

func NewRedisStore(client cmdable) *RedisStore {
	return &RedisStore{client: client}
}

// NewRedisClient parses url and verifies the server answers.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opt, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opt)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (s *RedisStore) Hit(ctx context.Context, key string, window time.Duration) (Window, error) {
	count, err := s.client.Incr(ctx, key).Result()
	if err != nil {
		return Window{}, err
	}
	if count == 1 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, err
		}
		return Window{Count: count, ResetAfter: window}, nil
	}

	ttl, err := s.client.PTTL(ctx, key).Result()
	if err != nil {
		return Window{}, err
	}
	// A key without expiry (-1) means a previous PExpire was lost; restore it.
	if ttl < 0 {
		if err := s.client.PExpire(ctx, key, window).Err(); err != nil {
			return Window{}, err
		}
		ttl = window
	}
	return Window{Count: count, ResetAfter: ttl}, nil
}
