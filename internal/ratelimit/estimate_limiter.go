package ratelimit

import (
	"context"

	redis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/forgenet/forgenet/internal/config"
)

const (
	// One estimate every 2 seconds sustained, short bursts allowed.
	estimateRate  = 0.5
	estimateBurst = 5
)

// EstimateLimiter throttles the pay-estimation route per caller. With no
// redis address configured the limiter is disabled and every request
// passes.
type EstimateLimiter struct {
	bucket *TokenBucket
}

func NewEstimateLimiter(cfg config.Config, log *zap.Logger) *EstimateLimiter {
	if cfg.RateLimitRedisAddr == "" {
		log.Info("estimate rate limiter disabled: no redis address configured")
		return &EstimateLimiter{}
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RateLimitRedisAddr,
		Password: cfg.RateLimitRedisPassword,
	})
	return &EstimateLimiter{bucket: NewTokenBucket(client)}
}

func (l *EstimateLimiter) Enabled() bool {
	return l != nil && l.bucket != nil
}

func (l *EstimateLimiter) AllowUser(ctx context.Context, userID string) (bool, error) {
	if !l.Enabled() {
		return true, nil
	}
	return l.bucket.Allow(ctx, "ratelimit:estimate:"+userID, estimateRate, estimateBurst)
}
