package restaurant

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"restopos-be/internal/cart"
	"restopos-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListRestaurants(ctx context.Context) ([]*Restaurant, error)
	ListTables(ctx context.Context, restaurantID *int64) ([]*Table, error)
	ListDeliveriesByCustomer(ctx context.Context, customerID int64) ([]*Delivery, error)
	ListDeliveriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Delivery, error)
	ActiveTableIDs(ctx context.Context, restaurantID int64) ([]int64, error)
	ActiveDeliveryIDs(ctx context.Context, restaurantID int64) ([]int64, error)
	GetTable(ctx context.Context, tableID int64) (*Table, error)
	SetTableStatus(ctx context.Context, tableID int64, status string) error
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

func (r *repository) ListRestaurants(ctx context.Context) ([]*Restaurant, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListRestaurants"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, direccion, telefono, creado_en
		FROM restaurante
		ORDER BY id ASC
	`)
	if err != nil {
		log.Error("failed to query restaurants", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	restaurants := []*Restaurant{}
	for rows.Next() {
		var rs Restaurant
		if err := rows.Scan(&rs.ID, &rs.Name, &rs.Address, &rs.Phone, &rs.CreatedAt); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		restaurants = append(restaurants, &rs)
	}

	return restaurants, rows.Err()
}

// ListTables lists every table when restaurantID is nil.
func (r *repository) ListTables(ctx context.Context, restaurantID *int64) ([]*Table, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListTables"),
	)

	query := `
		SELECT id, restaurante_id, numero_mesa, capacidad, estado
		FROM mesa
	`
	args := []interface{}{}
	if restaurantID != nil {
		query += " WHERE restaurante_id = $1"
		args = append(args, *restaurantID)
	}
	query += " ORDER BY restaurante_id ASC, numero_mesa ASC"

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to query tables", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	tables := []*Table{}
	for rows.Next() {
		var t Table
		if err := rows.Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Status); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		tables = append(tables, &t)
	}

	return tables, rows.Err()
}

func (r *repository) ListDeliveriesByCustomer(ctx context.Context, customerID int64) ([]*Delivery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.cliente_id, cl.nombre, d.direccion, d.ciudad, d.referencia, d.creado_en
		FROM domicilio d
		LEFT JOIN cliente cl ON cl.id = d.cliente_id
		WHERE d.cliente_id = $1
		ORDER BY d.creado_en DESC
	`, customerID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query customer deliveries",
			zap.Int64("customer_id", customerID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

// ListDeliveriesByRestaurant returns addresses that ever had a cart in the
// restaurant, newest first.
func (r *repository) ListDeliveriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Delivery, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT d.id, d.cliente_id, cl.nombre, d.direccion, d.ciudad, d.referencia, d.creado_en
		FROM domicilio d
		LEFT JOIN cliente cl ON cl.id = d.cliente_id
		WHERE EXISTS (
			SELECT 1
			FROM tipo_pedido tp
			JOIN carrito c ON c.tipo_pedido_id = tp.id
			WHERE tp.domicilio_id = d.id
			  AND c.restaurante_id = $1
		)
		ORDER BY d.creado_en DESC
	`, restaurantID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to query restaurant deliveries",
			zap.Int64("restaurant_id", restaurantID),
			zap.Error(err),
		)
		return nil, err
	}
	defer rows.Close()

	return scanDeliveries(rows)
}

func scanDeliveries(rows *sql.Rows) ([]*Delivery, error) {
	deliveries := []*Delivery{}
	for rows.Next() {
		var d Delivery
		if err := rows.Scan(&d.ID, &d.CustomerID, &d.CustomerName, &d.Address, &d.City, &d.Reference, &d.CreatedAt); err != nil {
			return nil, err
		}
		deliveries = append(deliveries, &d)
	}
	return deliveries, rows.Err()
}

func (r *repository) ActiveTableIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	return r.activeTargetIDs(ctx, "mesa_id", restaurantID)
}

func (r *repository) ActiveDeliveryIDs(ctx context.Context, restaurantID int64) ([]int64, error) {
	return r.activeTargetIDs(ctx, "domicilio_id", restaurantID)
}

// activeTargetIDs returns targets whose active cart holds at least one line.
// column is one of the two fixed tipo_pedido columns, never user input.
func (r *repository) activeTargetIDs(ctx context.Context, column string, restaurantID int64) ([]int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "activeTargetIDs"),
		zap.String("column", column),
		zap.Int64("restaurant_id", restaurantID),
	)

	query := fmt.Sprintf(`
		SELECT DISTINCT tp.%[1]s
		FROM carrito c
		JOIN tipo_pedido tp ON tp.id = c.tipo_pedido_id
		WHERE c.restaurante_id = $1
		  AND c.estado = ANY($2)
		  AND tp.%[1]s IS NOT NULL
		  AND EXISTS (SELECT 1 FROM carrito_producto cp WHERE cp.carrito_id = c.id)
		ORDER BY tp.%[1]s ASC
	`, column)

	rows, err := r.db.QueryContext(ctx, query, restaurantID, pq.Array(cart.ActiveStatuses()))
	if err != nil {
		log.Error("failed to query active targets", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

func (r *repository) GetTable(ctx context.Context, tableID int64) (*Table, error) {
	var t Table
	err := r.db.QueryRowContext(ctx, `
		SELECT id, restaurante_id, numero_mesa, capacidad, estado
		FROM mesa
		WHERE id = $1
	`, tableID).Scan(&t.ID, &t.RestaurantID, &t.Number, &t.Capacity, &t.Status)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTableNotFound
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get table", zap.Int64("table_id", tableID), zap.Error(err))
		return nil, err
	}
	return &t, nil
}

func (r *repository) SetTableStatus(ctx context.Context, tableID int64, status string) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "SetTableStatus"),
		zap.Int64("table_id", tableID),
		zap.String("status", status),
	)

	res, err := r.db.ExecContext(ctx, `
		UPDATE mesa
		SET estado = $1
		WHERE id = $2
	`, status, tableID)
	if err != nil {
		log.Error("failed to update table status", zap.Error(err))
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrTableNotFound
	}

	log.Debug("table status updated")
	return nil
}
