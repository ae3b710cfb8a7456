package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/sirupsen/logrus"
	echoSwagger "github.com/swaggo/echo-swagger"

	"github.com/sondreb/foodie/internal/cache"
	"github.com/sondreb/foodie/internal/config"
	"github.com/sondreb/foodie/internal/handler"
	"github.com/sondreb/foodie/internal/metrics"
	"github.com/sondreb/foodie/internal/middleware"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	logger logrus.FieldLogger,
	cacheClient *cache.Client,
	sessions middleware.SessionVerifier,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	restaurantHandler *handler.RestaurantHandler,
	utilHandler *handler.UtilHandler,
	seedHandler *handler.SeedHandler,
) {
	e.Validator = &CustomValidator{validator: validator.New(validator.WithRequiredStructEnabled())}
	e.HTTPErrorHandler = handler.ErrorHandler(logger)

	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))
	e.Use(metrics.HTTPMetricsMiddleware())
	e.Use(echomw.Recover())
	e.Use(middleware.SecureHeaders(cfg.IsProduction()))

	global := middleware.NewRateLimiter("global", cfg.RateLimit.Requests, cfg.RateLimit.Window, cacheClient, logger).
		WithExemptPaths(cfg.RateLimit.ExemptPaths)
	e.Use(global.Handle())

	// Each sensitive route gets its own budget.
	strictLogin := middleware.NewRateLimiter("login", cfg.RateLimit.StrictRequests, cfg.RateLimit.StrictWindow, cacheClient, logger)
	strictKeys := middleware.NewRateLimiter("generate-key", cfg.RateLimit.StrictRequests, cfg.RateLimit.StrictWindow, cacheClient, logger)

	// Only anonymous GET routes are cached.
	var cached []echo.MiddlewareFunc
	if cfg.Cache.Enabled {
		cached = append(cached, middleware.ResponseCache(cacheClient, cfg.Cache.TTL, logger))
	}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/metrics", metrics.Handler())
	e.GET("/swagger/*", echoSwagger.WrapHandler)

	e.GET("/version", utilHandler.Version)
	e.POST("/hash-password", utilHandler.HashPassword)
	e.POST("/generate-key", utilHandler.GenerateKey, strictKeys.Handle())

	e.GET("/restaurants", restaurantHandler.ListRestaurants, cached...)
	e.GET("/menu/:restaurantId", restaurantHandler.GetMenu, cached...)
	e.GET("/menu/item/:itemId", restaurantHandler.GetMenuItem, cached...)

	authn := e.Group("/authenticate")
	authn.GET("", authHandler.GetChallenge)
	authn.POST("", authHandler.ProveChallenge)
	authn.POST("/login", authHandler.Login, strictLogin.Handle())
	authn.GET("/logout", authHandler.Logout)
	authn.GET("/protected", authHandler.Protected, middleware.Session(sessions))

	admin := e.Group("/admin", middleware.Admin(sessions))
	admin.GET("/users", userHandler.ListUsers)
	admin.POST("/users", userHandler.CreateUser)
	admin.PUT("/users/:id", userHandler.UpdateUser)
	admin.DELETE("/users/:id", userHandler.DeleteUser)
	admin.POST("/seed/restaurants", seedHandler.SeedRestaurants)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
