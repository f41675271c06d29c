// Package limiter provides Redis-backed fixed-window rate limiting.
package limiter

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/daehwan2da/sopt-aos-server/pkg/config"
)

const signInKeyPrefix = "sopt:ratelimit:signin:"

// atomicIncrExpire increments a counter and sets its TTL on the first hit,
// so INCR and PEXPIRE cannot interleave with another client.
var atomicIncrExpire = redis.NewScript(`
local current = redis.call('INCR', KEYS[1])
if current == 1 then
  redis.call('PEXPIRE', KEYS[1], ARGV[1])
end
return current
`)

// RateLimiter counts hits per key in a fixed window.
type RateLimiter struct {
	client redis.UniversalClient
	limit  int64
	window time.Duration
}

// NewRateLimiter creates a limiter allowing limit hits per window.
func NewRateLimiter(client redis.UniversalClient, limit int64, window time.Duration) *RateLimiter {
	return &RateLimiter{client: client, limit: limit, window: window}
}

// Allow records a hit for key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(ctx context.Context, key string) (bool, error) {
	result, err := atomicIncrExpire.Run(ctx, rl.client, []string{key}, rl.window.Milliseconds()).Int64()
	if err != nil {
		return false, fmt.Errorf("rate limit check failed: %w", err)
	}
	return result <= rl.limit, nil
}

// Reset clears the counter for key.
func (rl *RateLimiter) Reset(ctx context.Context, key string) error {
	if err := rl.client.Del(ctx, key).Err(); err != nil {
		return fmt.Errorf("failed to reset counter: %w", err)
	}
	return nil
}

// SignInLimiter throttles sign-in attempts per nickname.
type SignInLimiter struct {
	limiter *RateLimiter
}

// NewSignInLimiter wraps client with the sign-in attempt budget.
func NewSignInLimiter(client redis.UniversalClient, attempts int64, window time.Duration) *SignInLimiter {
	return &SignInLimiter{limiter: NewRateLimiter(client, attempts, window)}
}

// Allow records one sign-in attempt for nickname.
func (l *SignInLimiter) Allow(ctx context.Context, nickname string) (bool, error) {
	return l.limiter.Allow(ctx, signInKeyPrefix+nickname)
}

// NewRedisClient opens a client and pings it within the dial timeout.
func NewRedisClient(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	pingCtx := ctx
	if cfg.DialTimeout > 0 {
		var cancel context.CancelFunc
		pingCtx, cancel = context.WithTimeout(ctx, cfg.DialTimeout)
		defer cancel()
	}
	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", cfg.Addr, err)
	}
	return client, nil
}
