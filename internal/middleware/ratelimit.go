package middleware

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/cache"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/metrics"
)

// fixedWindowScript counts a hit in the current window and returns the count
// and the milliseconds left in the window. The window starts at the first hit.
var fixedWindowScript = redis.NewScript(`
local current = redis.call("INCR", KEYS[1])
if current == 1 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
local ttl = redis.call("PTTL", KEYS[1])
if ttl < 0 then
    redis.call("PEXPIRE", KEYS[1], ARGV[1])
    ttl = tonumber(ARGV[1])
end
return {current, ttl}`)

// RateLimitResult describes the state of a client's window after a hit.
type RateLimitResult struct {
	Allowed   bool
	Limit     int
	Remaining int
	Reset     time.Time
}

// RateLimiter allows limit requests per client per fixed window.
type RateLimiter struct {
	name        string
	limit       int
	window      time.Duration
	exemptPaths []string
	cache       *cache.Client
	logger      logrus.FieldLogger
}

// NewRateLimiter creates a limiter whose counters live under ratelimit:<name>:.
func NewRateLimiter(name string, limit int, window time.Duration, client *cache.Client, logger logrus.FieldLogger) *RateLimiter {
	return &RateLimiter{
		name:   name,
		limit:  limit,
		window: window,
		cache:  client,
		logger: logger,
	}
}

// WithExemptPaths skips requests whose path starts with any of paths.
func (r *RateLimiter) WithExemptPaths(paths []string) *RateLimiter {
	r.exemptPaths = paths
	return r
}

// Allow records a hit for clientKey.
func (r *RateLimiter) Allow(ctx context.Context, clientKey string) (RateLimitResult, error) {
	key := fmt.Sprintf("ratelimit:%s:%s", r.name, clientKey)

	result, err := r.cache.Run(ctx, fixedWindowScript, []string{key}, r.window.Milliseconds())
	if err != nil {
		return RateLimitResult{}, fmt.Errorf("failed to execute rate limit script: %w", err)
	}

	resultSlice, ok := result.([]interface{})
	if !ok || len(resultSlice) != 2 {
		return RateLimitResult{}, fmt.Errorf("unexpected script result format")
	}
	current, ok := resultSlice[0].(int64)
	if !ok {
		return RateLimitResult{}, fmt.Errorf("failed to parse count")
	}
	ttlMs, ok := resultSlice[1].(int64)
	if !ok {
		return RateLimitResult{}, fmt.Errorf("failed to parse window ttl")
	}

	remaining := r.limit - int(current)
	if remaining < 0 {
		remaining = 0
	}

	return RateLimitResult{
		Allowed:   int(current) <= r.limit,
		Limit:     r.limit,
		Remaining: remaining,
		Reset:     time.Now().Add(time.Duration(ttlMs) * time.Millisecond),
	}, nil
}

// Handle rate limiting middleware
func (r *RateLimiter) Handle() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			path := c.Request().URL.Path
			for _, exemptPath := range r.exemptPaths {
				if exemptPath != "" && strings.HasPrefix(path, exemptPath) {
					return next(c)
				}
			}

			clientKey := c.RealIP()
			result, err := r.Allow(c.Request().Context(), clientKey)
			if err != nil {
				// Allow request on Redis failure to avoid blocking traffic
				r.logger.WithError(err).WithField("limiter", r.name).Error("Rate limit check failed")
				return next(c)
			}

			setRateLimitHeaders(c, result)

			if !result.Allowed {
				metrics.RecordRateLimitDrop(r.name)
				r.logger.WithFields(logrus.Fields{
					"limiter": r.name,
					"client":  clientKey,
					"path":    path,
					"method":  c.Request().Method,
				}).Warn("Rate limit exceeded")
				return apperrors.ErrRateLimited
			}

			return next(c)
		}
	}
}

// setRateLimitHeaders sets standard rate limit headers
func setRateLimitHeaders(c echo.Context, result RateLimitResult) {
	h := c.Response().Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(result.Limit))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(result.Reset.Unix(), 10))

	if !result.Allowed {
		retryAfter := int(time.Until(result.Reset).Seconds()) + 1
		if retryAfter < 1 {
			retryAfter = 1
		}
		h.Set("Retry-After", strconv.Itoa(retryAfter))
	}
}
