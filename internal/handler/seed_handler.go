package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"

	"github.com/sondreb/foodie/internal/service"
)

// SeedHandler handles seed data endpoints.
type SeedHandler struct {
	restaurantService service.RestaurantService
	logger            logrus.FieldLogger
}

// NewSeedHandler creates a new seed handler.
func NewSeedHandler(restaurantService service.RestaurantService, logger logrus.FieldLogger) *SeedHandler {
	return &SeedHandler{restaurantService: restaurantService, logger: logger}
}

// SeedResponse represents the seed response.
type SeedResponse struct {
	Message string `json:"message"`
	Count   int    `json:"count"`
}

// SeedRestaurants godoc
// @Summary Seed sample restaurants
// @Description Inserts the sample restaurants when none exist. Count is zero otherwise.
// @Tags seed
// @Produce json
// @Success 200 {object} SeedResponse
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /admin/seed/restaurants [post]
func (h *SeedHandler) SeedRestaurants(c echo.Context) error {
	count, err := h.restaurantService.SeedRestaurants(c.Request().Context())
	if err != nil {
		return err
	}

	message := "Restaurants seeded successfully"
	if count == 0 {
		message = "Restaurants already present"
	}
	h.logger.WithFields(logrus.Fields{"count": count, "actor": actorID(c)}).Info("Restaurant seeding requested")

	return c.JSON(http.StatusOK, SeedResponse{
		Message: message,
		Count:   count,
	})
}
