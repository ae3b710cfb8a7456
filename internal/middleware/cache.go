package middleware

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/metrics"
)

const (
	responseKeyPrefix = "response:"
	cacheKeyContext   = "response_cache_key"
	// DefaultCacheTTL is how long a cached response body stays valid.
	DefaultCacheTTL = 100 * time.Second
)

// ResponseStore is the subset of the cache client the response cache needs.
type ResponseStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// ResponseCache memoizes successful GET response bodies keyed by path and
// normalized query. It is applied per route and only to anonymous routes,
// since the key carries no caller identity.
func ResponseCache(store ResponseStore, ttl time.Duration, logger logrus.FieldLogger) echo.MiddlewareFunc {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}

	capture := echomw.BodyDumpWithConfig(echomw.BodyDumpConfig{
		Handler: func(c echo.Context, _, resBody []byte) {
			if c.Response().Status != http.StatusOK {
				return
			}
			key, _ := c.Get(cacheKeyContext).(string)
			if key == "" {
				return
			}
			body := append([]byte(nil), resBody...)
			if err := store.Set(c.Request().Context(), key, body, ttl); err != nil {
				logger.WithError(err).WithField("key", key).Warn("Failed to store cached response")
			}
		},
	})

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		captured := capture(next)
		return func(c echo.Context) error {
			if c.Request().Method != http.MethodGet {
				return next(c)
			}

			key := ResponseCacheKey(c)
			if data, _ := store.Get(c.Request().Context(), key); data != nil {
				metrics.RecordCacheLookup(true)
				c.Response().Header().Set("X-Cache", "HIT")
				return c.JSONBlob(http.StatusOK, data)
			}

			metrics.RecordCacheLookup(false)
			c.Response().Header().Set("X-Cache", "MISS")
			c.Set(cacheKeyContext, key)
			return captured(c)
		}
	}
}

// ResponseCacheKey is the request path plus its query with keys sorted.
func ResponseCacheKey(c echo.Context) string {
	key := responseKeyPrefix + c.Request().URL.Path
	if q := c.QueryParams().Encode(); q != "" {
		key += "?" + q
	}
	return key
}
