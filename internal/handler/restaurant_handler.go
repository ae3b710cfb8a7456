package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/service"
)

// RestaurantHandler serves the public catalogue.
type RestaurantHandler struct {
	svc service.RestaurantService
}

// NewRestaurantHandler creates a new restaurant handler.
func NewRestaurantHandler(svc service.RestaurantService) *RestaurantHandler {
	return &RestaurantHandler{svc: svc}
}

// MenuItem is a single entry on a menu.
type MenuItem struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
}

// ListRestaurants godoc
// @Summary List restaurants
// @Description Seeds sample restaurants on first access to an empty store.
// @Tags restaurants
// @Produce json
// @Success 200 {array} model.Restaurant
// @Failure 429 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /restaurants [get]
func (h *RestaurantHandler) ListRestaurants(c echo.Context) error {
	restaurants, err := h.svc.ListRestaurants(c.Request().Context())
	if err != nil {
		return err
	}
	if restaurants == nil {
		restaurants = []model.Restaurant{}
	}
	return c.JSON(http.StatusOK, restaurants)
}

// GetMenu godoc
// @Summary Get a restaurant menu
// @Tags restaurants
// @Produce json
// @Param restaurantId path string true "Restaurant ID"
// @Success 200 {array} MenuItem
// @Router /menu/{restaurantId} [get]
func (h *RestaurantHandler) GetMenu(c echo.Context) error {
	// TODO: back menus with a menu_items table keyed by restaurant id.
	return c.JSON(http.StatusOK, []MenuItem{})
}

// GetMenuItem godoc
// @Summary Get a menu item
// @Tags restaurants
// @Produce json
// @Param itemId path string true "Menu item ID"
// @Success 200 {array} MenuItem
// @Router /menu/item/{itemId} [get]
func (h *RestaurantHandler) GetMenuItem(c echo.Context) error {
	return c.JSON(http.StatusOK, []MenuItem{})
}
