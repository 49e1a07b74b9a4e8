package restaurant

import (
	"context"

	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	ListRestaurants(ctx context.Context) ([]*Restaurant, error)
	ListTables(ctx context.Context, restaurantID int64) ([]*Table, error)
	ListDeliveriesByCustomer(ctx context.Context, customerID int64) ([]*Delivery, error)
	ListDeliveriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Delivery, error)
	ActiveTableIDs(ctx context.Context, restaurantID int64) ([]int64, error)
	ActiveDeliveryIDs(ctx context.Context, restaurantID int64) ([]int64, error)
	Dashboard(ctx context.Context, restaurantID int64) (*Dashboard, error)
	GetTable(ctx context.Context, tableID int64) (*Table, error)
	TableRestaurantID(ctx context.Context, tableID int64) (int64, error)
	SetTableStatus(ctx context.Context, tableID int64, status string) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) ListRestaurants(ctx context.Context) ([]*Restaurant, error) {
	return s.repo.ListRestaurants(ctx)
}

// ListTables lists the tables of one restaurant, or all tables when
// restaurantID is 0.
func (s *service) ListTables(ctx context.Context, restaurantID int64) ([]*Table, error) {
	if restaurantID < 0 {
		return nil, ErrInvalidRestaurantID
	}

	var filter *int64
	if restaurantID > 0 {
		filter = &restaurantID
	}
	return s.repo.ListTables(ctx, filter)
}

func (s *service) ListDeliveriesByCustomer(ctx context.Context, customerID int64) ([]*Delivery, error) {
	if customerID <= 0 {
		return nil, ErrInvalidCustomerID
	}
	return s.repo.ListDeliveriesByCustomer(ctx, customerID)
}

func (s *service) ListDeliveriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Delivery, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	return s.repo.ListDeliveriesByRestaurant(ctx, restaurantID)
}

func (s *service) ActiveTableIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	return s.repo.ActiveTableIDs(ctx, restaurantID)
}

func (s *service) ActiveDeliveryIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}
	return s.repo.ActiveDeliveryIDs(ctx, restaurantID)
}

// Dashboard marks a table OCUPADA and a delivery CON PEDIDO when its active
// cart has items. The stored mesa.estado is not consulted.
func (s *service) Dashboard(ctx context.Context, restaurantID int64) (*Dashboard, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Dashboard"),
		zap.Int64("restaurant_id", restaurantID),
	)

	if restaurantID <= 0 {
		return nil, ErrInvalidRestaurantID
	}

	tables, err := s.repo.ListTables(ctx, &restaurantID)
	if err != nil {
		log.Error("failed to list tables", zap.Error(err))
		return nil, err
	}

	deliveries, err := s.repo.ListDeliveriesByRestaurant(ctx, restaurantID)
	if err != nil {
		log.Error("failed to list deliveries", zap.Error(err))
		return nil, err
	}

	activeTables, err := s.repo.ActiveTableIDs(ctx, restaurantID)
	if err != nil {
		log.Error("failed to load active tables", zap.Error(err))
		return nil, err
	}

	activeDeliveries, err := s.repo.ActiveDeliveryIDs(ctx, restaurantID)
	if err != nil {
		log.Error("failed to load active deliveries", zap.Error(err))
		return nil, err
	}

	busyTables := toSet(activeTables)
	busyDeliveries := toSet(activeDeliveries)

	d := &Dashboard{
		RestaurantID: restaurantID,
		Tables:       make([]*TableView, 0, len(tables)),
		Deliveries:   make([]*DeliveryView, 0, len(deliveries)),
	}

	for _, t := range tables {
		status := VisualAvailable
		if busyTables[t.ID] {
			status = VisualOccupied
		}
		d.Tables = append(d.Tables, &TableView{Table: t, VisualStatus: status})
	}

	for _, dl := range deliveries {
		status := VisualAvailable
		if busyDeliveries[dl.ID] {
			status = VisualWithOrder
		}
		d.Deliveries = append(d.Deliveries, &DeliveryView{Delivery: dl, VisualStatus: status})
	}

	log.Info("dashboard built",
		zap.Int("tables", len(d.Tables)),
		zap.Int("busy_tables", len(busyTables)),
		zap.Int("deliveries", len(d.Deliveries)),
	)
	return d, nil
}

func (s *service) GetTable(ctx context.Context, tableID int64) (*Table, error) {
	if tableID <= 0 {
		return nil, ErrTableNotFound
	}
	return s.repo.GetTable(ctx, tableID)
}

// TableRestaurantID returns the restaurant owning the table.
func (s *service) TableRestaurantID(ctx context.Context, tableID int64) (int64, error) {
	t, err := s.GetTable(ctx, tableID)
	if err != nil {
		return 0, err
	}
	return t.RestaurantID, nil
}

func (s *service) SetTableStatus(ctx context.Context, tableID int64, status string) error {
	if status != TableAvailable && status != TableOccupied {
		return ErrInvalidTableStatus
	}
	return s.repo.SetTableStatus(ctx, tableID, status)
}

func toSet(ids []int64) map[int64]bool {
	set := make(map[int64]bool, len(ids))
	for _, id := range ids {
		set[id] = true
	}
	return set
}
