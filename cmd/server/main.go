package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/sondreb/foodie/docs" // swagger docs

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/auth"
	"github.com/sondreb/foodie/internal/cache"
	"github.com/sondreb/foodie/internal/config"
	"github.com/sondreb/foodie/internal/db"
	"github.com/sondreb/foodie/internal/handler"
	"github.com/sondreb/foodie/internal/logging"
	"github.com/sondreb/foodie/internal/metrics"
	"github.com/sondreb/foodie/internal/repository"
	"github.com/sondreb/foodie/internal/router"
	"github.com/sondreb/foodie/internal/service"
)

// @title Foodie API
// @version 1.0
// @description Restaurant listing API with cookie sessions, an admin user directory, response caching and rate limiting.
// @host localhost:3000
// @BasePath /
// @schemes http
func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}

	logger := logging.New(cfg)
	logger.WithFields(logrus.Fields{
		"port":       cfg.Server.Port,
		"production": cfg.IsProduction(),
	}).Info("Starting foodie API")

	if err := metrics.Init(); err != nil {
		logger.WithError(err).Fatal("Failed to register metrics")
	}

	gormDB, err := db.NewMySQL(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	if cfg.ResetDB {
		logger.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			logger.WithError(err).Fatal("Failed to drop tables")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}

	cacheClient := cache.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
	pingCtx, cancelPing := context.WithTimeout(context.Background(), 3*time.Second)
	if err := cacheClient.Ping(pingCtx); err != nil {
		// Cache and limiter fail open, challenges fail closed.
		logger.WithError(err).WithField("addr", cfg.Redis.Addr).Warn("Redis unavailable at startup")
	}
	cancelPing()

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	restaurantRepo := repository.NewRestaurantRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWT.Secret, cfg.JWT.SessionTTL)
	challengeStore := auth.NewChallengeStore(cacheClient, cfg.JWT.ChallengeTTL)
	cookies := auth.NewCookieFactory(cfg.IsProduction(), jwtService.TTL())

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, challengeStore)
	userService := service.NewUserService(userRepo)
	restaurantService := service.NewRestaurantService(restaurantRepo)

	// Initialize handlers
	authHandler := handler.NewAuthHandler(authService, cookies, logger)
	userHandler := handler.NewUserHandler(userService)
	restaurantHandler := handler.NewRestaurantHandler(restaurantService)
	utilHandler := handler.NewUtilHandler(cfg.Version, cfg.IsProduction())
	seedHandler := handler.NewSeedHandler(restaurantService, logger)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(
		e,
		cfg,
		logger,
		cacheClient,
		authService,
		authHandler,
		userHandler,
		restaurantHandler,
		utilHandler,
		seedHandler,
	)

	logger.Infof("Swagger documentation available at: http://localhost:%s/swagger/index.html", cfg.Server.Port)

	go func() {
		if err := e.Start(":" + cfg.Server.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Fatal("Server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logger.WithField("signal", sig.String()).Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}

	if err := cacheClient.Close(); err != nil {
		logger.WithError(err).Warn("Failed to close redis client")
	}
	if err := db.Close(gormDB); err != nil {
		logger.WithError(err).Warn("Failed to close database")
	}
	logger.Info("Server stopped")
}
