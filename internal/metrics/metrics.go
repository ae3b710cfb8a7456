package metrics

import (
	"errors"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// HTTP metrics
	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_server_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_server_requests_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status_code"},
	)

	responseCacheLookupsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "response_cache_lookups_total",
			Help: "Total number of response cache lookups",
		},
		[]string{"result"}, // hit or miss
	)

	rateLimitDroppedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "ratelimit_dropped_total",
			Help: "Total number of requests dropped due to rate limiting",
		},
		[]string{"limiter"},
	)

	authLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts",
		},
		[]string{"method", "result"}, // password/proof, success/failure
	)
)

// Init registers the collectors with the default registry. Calling it more
// than once is harmless.
func Init() error {
	collectors := []prometheus.Collector{
		httpRequestsTotal,
		httpRequestDuration,
		responseCacheLookupsTotal,
		rateLimitDroppedTotal,
		authLoginsTotal,
	}
	for _, c := range collectors {
		if err := prometheus.Register(c); err != nil {
			var already prometheus.AlreadyRegisteredError
			if errors.As(err, &already) {
				continue
			}
			return err
		}
	}
	return nil
}

// HTTPMetricsMiddleware records HTTP metrics
func HTTPMetricsMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Render errors here so the recorded status is the one sent.
			if err := next(c); err != nil {
				c.Error(err)
			}

			status := c.Response().Status
			route := c.Path()
			if route == "" {
				route = c.Request().URL.Path
			}
			statusCode := strconv.Itoa(status)
			method := c.Request().Method

			httpRequestsTotal.WithLabelValues(method, route, statusCode).Inc()
			httpRequestDuration.WithLabelValues(method, route, statusCode).Observe(time.Since(start).Seconds())
			return nil
		}
	}
}

// RecordCacheLookup records response cache hits/misses
func RecordCacheLookup(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	responseCacheLookupsTotal.WithLabelValues(result).Inc()
}

// RecordRateLimitDrop records rate limit drops
func RecordRateLimitDrop(limiter string) {
	rateLimitDroppedTotal.WithLabelValues(limiter).Inc()
}

// RecordLogin records a login attempt
func RecordLogin(method string, success bool) {
	result := "failure"
	if success {
		result = "success"
	}
	authLoginsTotal.WithLabelValues(method, result).Inc()
}

// Handler returns the Prometheus metrics handler
func Handler() echo.HandlerFunc {
	return echo.WrapHandler(promhttp.Handler())
}
