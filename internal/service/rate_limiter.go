package service

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pintrail/pintrail/pkg/database"
)

// RateLimiter handles rate limiting using Redis
type RateLimiter struct {
	redis  *database.Redis
	logger *zap.Logger
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter(redis *database.Redis, logger *zap.Logger) *RateLimiter {
	return &RateLimiter{redis: redis, logger: logger}
}

// Allow checks if a request is allowed based on rate limit.
// Returns false with an error wrapping ErrRateLimited when the window is full.
func (r *RateLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	now := time.Now()
	windowStart := now.Add(-window)

	// Sliding window log, one sorted set per key.
	redisKey := fmt.Sprintf("ratelimit:%s", key)

	err := r.redis.Client.ZRemRangeByScore(ctx, redisKey, "0", fmt.Sprintf("%d", windowStart.Unix())).Err()
	if err != nil {
		return false, fmt.Errorf("failed to clean old entries: %w", err)
	}

	count, err := r.redis.Client.ZCard(ctx, redisKey).Result()
	if err != nil {
		return false, fmt.Errorf("failed to count entries: %w", err)
	}

	if count >= int64(limit) {
		oldest, err := r.redis.Client.ZRangeWithScores(ctx, redisKey, 0, 0).Result()
		if err == nil && len(oldest) > 0 {
			oldestTime := time.Unix(int64(oldest[0].Score), 0)
			remaining := window - time.Since(oldestTime)
			return false, fmt.Errorf("%w, try again in %v", ErrRateLimited, remaining.Round(time.Second))
		}
		return false, ErrRateLimited
	}

	member := fmt.Sprintf("%d-%d", now.UnixNano(), now.Unix())
	err = r.redis.Client.ZAdd(ctx, redisKey, redis.Z{
		Score:  float64(now.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return false, fmt.Errorf("failed to add entry: %w", err)
	}

	// Expire the key a bit after the window so abandoned keys get collected.
	// A failure here only delays collection; the request itself already passed.
	if err := r.redis.Client.Expire(ctx, redisKey, window+time.Minute).Err(); err != nil {
		r.logger.Warn("failed to set rate limit key expiry",
			zap.String("key", redisKey),
			zap.Error(err),
		)
	}

	return true, nil
}
