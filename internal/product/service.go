package product

import (
	"context"

	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListByRestaurant(ctx context.Context, restaurantID int64) ([]*CatalogItem, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	ListCategoriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Category, error)
	MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error)
	GetOfferingID(ctx context.Context, productID, restaurantID int64) (int64, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListByRestaurant(ctx context.Context, restaurantID int64) ([]*CatalogItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "ListByRestaurant"),
		zap.Int64("restaurant_id", restaurantID),
	)

	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}

	items, err := s.repo.ListAvailableByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error("failed to list catalog", zap.Error(err))
		return nil, err
	}

	log.Info("catalog loaded", zap.Int("count", len(items)))
	return toCatalog(items), nil
}

func (s *service) ListCategories(ctx context.Context) ([]*Category, error) {
	categories, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	return withSlugs(categories), nil
}

func (s *service) ListCategoriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Category, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}

	categories, err := s.repo.ListCategoriesByRestaurant(ctx, restaurantID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to list restaurant categories",
			zap.Int64("restaurant_id", restaurantID),
			zap.Error(err),
		)
		return nil, err
	}
	return withSlugs(categories), nil
}

// MapOfferings returns product id -> producto_restaurante id. Products the
// restaurant does not offer are absent from the map.
func (s *service) MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	return s.repo.MapOfferings(ctx, restaurantID, productIDs)
}

func (s *service) GetOfferingID(ctx context.Context, productID, restaurantID int64) (int64, error) {
	if productID <= 0 {
		return 0, ErrInvalidProductID
	}
	if restaurantID <= 0 {
		return 0, ErrInvalidRestaurantID
	}

	id, err := s.repo.GetOfferingID(ctx, productID, restaurantID)
	if err != nil {
		return 0, err
	}
	if id == nil {
		return 0, ErrOfferingNotFound
	}
	return *id, nil
}
