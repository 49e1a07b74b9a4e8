package api

import (
	"context"

	"restopos-be/internal/cart"
	"restopos-be/internal/product"
	"restopos-be/internal/restaurant"
	"restopos-be/internal/staff"

	"github.com/stretchr/testify/mock"
)

type MockCartService struct {
	mock.Mock
}

func (m *MockCartService) CreateCart(ctx context.Context, target cart.OrderTarget, input cart.CartInput) (*cart.CreateResult, error) {
	args := m.Called(ctx, target, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CreateResult), args.Error(1)
}

func (m *MockCartService) AddItem(ctx context.Context, params cart.AddItemParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockCartService) UpdateQuantity(ctx context.Context, params cart.UpdateQuantityParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockCartService) RemoveItem(ctx context.Context, params cart.RemoveItemParams) error {
	return m.Called(ctx, params).Error(0)
}

func (m *MockCartService) GetActiveCart(ctx context.Context, target cart.OrderTarget) (*cart.Cart, error) {
	args := m.Called(ctx, target)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.Cart), args.Error(1)
}

func (m *MockCartService) GetCompleteCart(ctx context.Context, target cart.OrderTarget, restaurantID int64) (*cart.CompleteCart, error) {
	args := m.Called(ctx, target, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cart.CompleteCart), args.Error(1)
}

func (m *MockCartService) ClearCart(ctx context.Context, cartID int64, target cart.OrderTarget, restaurantID int64) error {
	return m.Called(ctx, cartID, target, restaurantID).Error(0)
}

type MockProductService struct {
	mock.Mock
}

func (m *MockProductService) ListByRestaurant(ctx context.Context, restaurantID int64) ([]*product.CatalogItem, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.CatalogItem), args.Error(1)
}

func (m *MockProductService) ListCategories(ctx context.Context) ([]*product.Category, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Category), args.Error(1)
}

func (m *MockProductService) ListCategoriesByRestaurant(ctx context.Context, restaurantID int64) ([]*product.Category, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*product.Category), args.Error(1)
}

func (m *MockProductService) MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error) {
	args := m.Called(ctx, restaurantID, productIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[int64]int64), args.Error(1)
}

func (m *MockProductService) GetOfferingID(ctx context.Context, productID, restaurantID int64) (int64, error) {
	args := m.Called(ctx, productID, restaurantID)
	return args.Get(0).(int64), args.Error(1)
}

type MockRestaurantService struct {
	mock.Mock
}

func (m *MockRestaurantService) ListRestaurants(ctx context.Context) ([]*restaurant.Restaurant, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Restaurant), args.Error(1)
}

func (m *MockRestaurantService) ListTables(ctx context.Context, restaurantID int64) ([]*restaurant.Table, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Table), args.Error(1)
}

func (m *MockRestaurantService) ListDeliveriesByCustomer(ctx context.Context, customerID int64) ([]*restaurant.Delivery, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Delivery), args.Error(1)
}

func (m *MockRestaurantService) ListDeliveriesByRestaurant(ctx context.Context, restaurantID int64) ([]*restaurant.Delivery, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*restaurant.Delivery), args.Error(1)
}

func (m *MockRestaurantService) ActiveTableIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRestaurantService) ActiveDeliveryIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *MockRestaurantService) Dashboard(ctx context.Context, restaurantID int64) (*restaurant.Dashboard, error) {
	args := m.Called(ctx, restaurantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Dashboard), args.Error(1)
}

func (m *MockRestaurantService) GetTable(ctx context.Context, tableID int64) (*restaurant.Table, error) {
	args := m.Called(ctx, tableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*restaurant.Table), args.Error(1)
}

func (m *MockRestaurantService) TableRestaurantID(ctx context.Context, tableID int64) (int64, error) {
	args := m.Called(ctx, tableID)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockRestaurantService) SetTableStatus(ctx context.Context, tableID int64, status string) error {
	return m.Called(ctx, tableID, status).Error(0)
}

type MockStaffService struct {
	mock.Mock
}

func (m *MockStaffService) Login(ctx context.Context, email, password string) (*staff.LoginResult, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*staff.LoginResult), args.Error(1)
}
