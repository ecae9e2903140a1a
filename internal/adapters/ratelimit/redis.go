package ratelimit

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	redisKeyPrefix = "eventconnect:ratelimit:"
	redisTimeout   = 250 * time.Millisecond
)

// RedisConfig holds connection settings for the Redis limiter.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// counterStore is the subset of the go-redis client the limiter uses.
type counterStore interface {
	Incr(ctx context.Context, key string) *redis.IntCmd
	Expire(ctx context.Context, key string, expiration time.Duration) *redis.BoolCmd
	TTL(ctx context.Context, key string) *redis.DurationCmd
	Close() error
}

type redisLimiter struct {
	store   counterStore
	logger  *slog.Logger
	now     func() time.Time
	timeout time.Duration
}

// NewRedisLimiter connects to Redis and returns a limiter shared by every API instance.
// It fails if the server does not answer a ping.
func NewRedisLimiter(ctx context.Context, cfg RedisConfig, logger *slog.Logger) (Limiter, error) {
	client := redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", cfg.Addr, err)
	}
	return newRedisLimiter(client, logger), nil
}

func newRedisLimiter(store counterStore, logger *slog.Logger) *redisLimiter {
	return &redisLimiter{store: store, logger: logger, now: time.Now, timeout: redisTimeout}
}

// Allow fails open: when Redis is unreachable the request is admitted and the error logged.
func (l *redisLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) Decision {
	unlimited, window := normalize(limit, window)
	if unlimited {
		return Decision{Allowed: true}
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
	defer cancel()

	redisKey := redisKeyPrefix + key
	count, err := l.store.Incr(ctx, redisKey).Result()
	if err != nil {
		l.logError(ctx, "incr", err)
		return Decision{Allowed: true}
	}
	if count == 1 {
		if err := l.store.Expire(ctx, redisKey, window).Err(); err != nil {
			l.logError(ctx, "expire", err)
		}
	}
	ttl, err := l.store.TTL(ctx, redisKey).Result()
	if err == nil && ttl < 0 {
		// The key has no expiry, e.g. a failed Expire after the first Incr.
		if err := l.store.Expire(ctx, redisKey, window).Err(); err != nil {
			l.logError(ctx, "expire", err)
		}
	}
	if err != nil || ttl <= 0 {
		ttl = window
	}
	return Decision{
		Allowed:   int(count) <= limit,
		Count:     int(count),
		WindowEnd: l.now().Add(ttl),
	}
}

func (l *redisLimiter) Close() {
	_ = l.store.Close()
}

func (l *redisLimiter) logError(ctx context.Context, op string, err error) {
	if l.logger == nil {
		return
	}
	l.logger.ErrorContext(ctx, "redis rate limiter error", "op", op, "err", err)
}
