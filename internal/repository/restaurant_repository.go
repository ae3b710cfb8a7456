package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/sondreb/foodie/internal/model"
)

// RestaurantRepository defines restaurant persistence operations.
type RestaurantRepository interface {
	Count(ctx context.Context) (int64, error)
	CreateBatch(ctx context.Context, restaurants []model.Restaurant) error
	List(ctx context.Context) ([]model.Restaurant, error)
}

type restaurantRepository struct {
	db *gorm.DB
}

// NewRestaurantRepository creates a new restaurant repository.
func NewRestaurantRepository(db *gorm.DB) RestaurantRepository {
	return &restaurantRepository{db: db}
}

// Count returns the number of stored restaurants.
func (r *restaurantRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Restaurant{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CreateBatch inserts restaurants in a single transaction.
func (r *restaurantRepository) CreateBatch(ctx context.Context, restaurants []model.Restaurant) error {
	if len(restaurants) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return tx.Create(&restaurants).Error
	})
}

// List returns all restaurants ordered by name.
func (r *restaurantRepository) List(ctx context.Context) ([]model.Restaurant, error) {
	var restaurants []model.Restaurant
	if err := r.db.WithContext(ctx).Order("name").Find(&restaurants).Error; err != nil {
		return nil, err
	}
	return restaurants, nil
}
