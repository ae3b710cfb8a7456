package main

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/auth"
	"github.com/sondreb/foodie/internal/config"
	"github.com/sondreb/foodie/internal/db"
	apperrors "github.com/sondreb/foodie/internal/errors"
	"github.com/sondreb/foodie/internal/logging"
	"github.com/sondreb/foodie/internal/repository"
	"github.com/sondreb/foodie/internal/service"
)

// seedActor is recorded as createdBy on provisioned records.
const seedActor = "seed"

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("Failed to load configuration")
	}
	logger := logging.New(cfg)
	logger.Info("Starting seed script")

	gormDB, err := db.NewMySQL(cfg.DatabaseURL)
	if err != nil {
		logger.WithError(err).Fatal("Failed to connect to database")
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			logger.WithError(err).Warn("Failed to close database")
		}
	}()

	if err := db.Migrate(gormDB); err != nil {
		logger.WithError(err).Fatal("Failed to run migrations")
	}
	logger.Info("Database migrations completed")

	ctx := context.Background()
	userService := service.NewUserService(repository.NewUserRepository(gormDB))
	restaurantService := service.NewRestaurantService(repository.NewRestaurantRepository(gormDB))

	created, err := seedAdmin(ctx, userService, cfg.Admin)
	if err != nil {
		logger.WithError(err).Fatal("Failed to provision admin")
	}
	if created {
		logger.WithField("username", cfg.Admin.Username).Info("Admin account created")
	} else {
		logger.WithField("username", cfg.Admin.Username).Info("Admin account already exists, skipped")
	}

	count, err := restaurantService.SeedRestaurants(ctx)
	if err != nil {
		logger.WithError(err).Fatal("Failed to seed restaurants")
	}
	logger.WithField("restaurants", count).Info("Seed completed successfully")
}

// seedAdmin creates the admin account unless the username is taken.
func seedAdmin(ctx context.Context, users service.UserService, admin config.AdminConfig) (bool, error) {
	if admin.Password == "" {
		return false, errors.New("ADMIN_PASSWORD is required")
	}

	_, err := users.CreateUser(ctx, seedActor, service.CreateUserInput{
		Username: admin.Username,
		Password: admin.Password,
		Roles:    []string{auth.RoleUser, auth.RoleAdmin},
	})
	if errors.Is(err, apperrors.ErrUsernameTaken) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
