package service

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"github.com/sondreb/foodie/internal/model"
	"github.com/sondreb/foodie/internal/repository"
)

// RestaurantService handles restaurant listing operations.
type RestaurantService interface {
	ListRestaurants(ctx context.Context) ([]model.Restaurant, error)
	SeedRestaurants(ctx context.Context) (int, error)
}

type restaurantService struct {
	repo   repository.RestaurantRepository
	flight singleflight.Group
	seeded atomic.Bool
}

// NewRestaurantService creates a new restaurant service.
func NewRestaurantService(repo repository.RestaurantRepository) RestaurantService {
	return &restaurantService{repo: repo}
}

// ListRestaurants returns all restaurants, seeding the samples first if the
// collection is empty.
func (s *restaurantService) ListRestaurants(ctx context.Context) ([]model.Restaurant, error) {
	if !s.seeded.Load() {
		if _, err := s.SeedRestaurants(ctx); err != nil {
			return nil, err
		}
	}

	restaurants, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// SeedRestaurants inserts the sample restaurants when none exist and reports
// how many were inserted. Concurrent callers, listing or explicit seeding,
// share one run and all see its result.
func (s *restaurantService) SeedRestaurants(ctx context.Context) (int, error) {
	v, err, _ := s.flight.Do("seed", func() (interface{}, error) {
		return s.seedIfEmpty(ctx)
	})
	if err != nil {
		return 0, err
	}
	return v.(int), nil
}

func (s *restaurantService) seedIfEmpty(ctx context.Context) (int, error) {
	count, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count restaurants: %w", err)
	}
	if count > 0 {
		s.seeded.Store(true)
		return 0, nil
	}

	samples := model.SampleRestaurants()
	if err := s.repo.CreateBatch(ctx, samples); err != nil {
		return 0, fmt.Errorf("seed restaurants: %w", err)
	}
	s.seeded.Store(true)
	return len(samples), nil
}
