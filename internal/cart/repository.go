package cart

import (
	"context"
	"database/sql"
	"errors"

	"restopos-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	GetOrderTypeByTarget(ctx context.Context, target OrderTarget) (*OrderType, error)
	CreateOrderType(ctx context.Context, target OrderTarget) (*OrderType, error)

	GetCartByOrderType(ctx context.Context, orderTypeID int64) (*Cart, error)
	GetActiveCartByOrderType(ctx context.Context, orderTypeID int64) (*Cart, error)
	CreateCart(ctx context.Context, restaurantID, orderTypeID int64, customerID *int64) (*Cart, error)
	ReopenCart(ctx context.Context, cartID int64) error
	GetCartOwner(ctx context.Context, cartID int64) (*CartOwner, error)

	UpsertItems(ctx context.Context, cartID int64, items []ItemUpsert) error
	GetItems(ctx context.Context, cartID int64) ([]*Item, error)
	UpdateItemQuantity(ctx context.Context, cartID, offeringID int64, quantity int, unitPrice *float64) error
	DeleteItem(ctx context.Context, cartID, offeringID int64) (int64, error)
	ClearItems(ctx context.Context, cartID int64) (int64, error)
	GetCompleteItems(ctx context.Context, cartID, restaurantID int64) ([]completeRow, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

const cartColumns = `
	id,
	restaurante_id,
	tipo_pedido_id,
	cliente_id,
	estado,
	creado_en,
	actualizado_en
`

func scanCart(row *sql.Row) (*Cart, error) {
	var c Cart
	err := row.Scan(
		&c.ID,
		&c.RestaurantID,
		&c.OrderTypeID,
		&c.CustomerID,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// GetOrderTypeByTarget returns nil, nil when the target has no tipo_pedido yet.
func (r *repository) GetOrderTypeByTarget(ctx context.Context, target OrderTarget) (*OrderType, error) {
	query := `SELECT id, mesa_id, domicilio_id FROM tipo_pedido WHERE domicilio_id = $1`
	if target.IsTable() {
		query = `SELECT id, mesa_id, domicilio_id FROM tipo_pedido WHERE mesa_id = $1`
	}

	var ot OrderType
	err := r.db.QueryRowContext(ctx, query, target.ID()).Scan(&ot.ID, &ot.TableID, &ot.DeliveryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get order type",
			zap.String("target", target.Key()),
			zap.Error(err),
		)
		return nil, err
	}

	return &ot, nil
}

func (r *repository) CreateOrderType(ctx context.Context, target OrderTarget) (*OrderType, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateOrderType"),
		zap.String("target", target.Key()),
	)

	var tableID, deliveryID *int64
	if target.IsTable() {
		tableID = &target.TableID
	} else {
		deliveryID = &target.DeliveryID
	}

	var ot OrderType
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO tipo_pedido (mesa_id, domicilio_id)
		VALUES ($1, $2)
		RETURNING id, mesa_id, domicilio_id
	`, tableID, deliveryID).Scan(&ot.ID, &ot.TableID, &ot.DeliveryID)
	if err != nil {
		log.Warn("failed to insert order type", zap.Error(err))
		return nil, err
	}

	log.Debug("order type created", zap.Int64("order_type_id", ot.ID))
	return &ot, nil
}

// GetCartByOrderType returns the cart regardless of status, nil when absent.
func (r *repository) GetCartByOrderType(ctx context.Context, orderTypeID int64) (*Cart, error) {
	c, err := scanCart(r.db.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM carrito WHERE tipo_pedido_id = $1`,
		orderTypeID,
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get cart", zap.Int64("order_type_id", orderTypeID), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *repository) GetActiveCartByOrderType(ctx context.Context, orderTypeID int64) (*Cart, error) {
	c, err := scanCart(r.db.QueryRowContext(ctx,
		`SELECT `+cartColumns+` FROM carrito WHERE tipo_pedido_id = $1 AND estado = ANY($2)`,
		orderTypeID, pq.Array(ActiveStatuses()),
	))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get active cart", zap.Int64("order_type_id", orderTypeID), zap.Error(err))
		return nil, err
	}
	return c, nil
}

func (r *repository) CreateCart(ctx context.Context, restaurantID, orderTypeID int64, customerID *int64) (*Cart, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "CreateCart"),
		zap.Int64("restaurant_id", restaurantID),
		zap.Int64("order_type_id", orderTypeID),
	)

	c, err := scanCart(r.db.QueryRowContext(ctx, `
		INSERT INTO carrito (restaurante_id, tipo_pedido_id, cliente_id, estado)
		VALUES ($1, $2, $3, $4)
		RETURNING `+cartColumns,
		restaurantID, orderTypeID, customerID, StatusPending,
	))
	if err != nil {
		log.Warn("failed to insert cart", zap.Error(err))
		return nil, err
	}

	log.Debug("cart created", zap.Int64("cart_id", c.ID))
	return c, nil
}

func (r *repository) ReopenCart(ctx context.Context, cartID int64) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE carrito
		SET estado = $1, actualizado_en = NOW()
		WHERE id = $2
	`, StatusPending, cartID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to reopen cart", zap.Int64("cart_id", cartID), zap.Error(err))
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartNotFound
	}
	return nil
}

// GetCartOwner returns nil, nil when the cart does not exist. Status is not
// checked; closed carts still have an owner.
func (r *repository) GetCartOwner(ctx context.Context, cartID int64) (*CartOwner, error) {
	var owner CartOwner
	var ot OrderType
	err := r.db.QueryRowContext(ctx, `
		SELECT c.id, c.restaurante_id, tp.mesa_id, tp.domicilio_id
		FROM carrito c
		JOIN tipo_pedido tp ON tp.id = c.tipo_pedido_id
		WHERE c.id = $1
	`, cartID).Scan(&owner.CartID, &owner.RestaurantID, &ot.TableID, &ot.DeliveryID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get cart owner", zap.Int64("cart_id", cartID), zap.Error(err))
		return nil, err
	}

	owner.Target = ot.Target()
	return &owner, nil
}

// UpsertItems merges each line into the cart. An existing line for the same
// offering gets its quantity incremented and takes the new unit price; the
// subtotal is always recomputed from the stored quantity.
func (r *repository) UpsertItems(ctx context.Context, cartID int64, items []ItemUpsert) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpsertItems"),
		zap.Int64("cart_id", cartID),
	)

	query := `
	INSERT INTO carrito_producto (
		carrito_id,
		producto_restaurante_id,
		cantidad,
		precio_unitario,
		subtotal
	)
	VALUES ($1, $2, $3::int, $4::numeric, $3::int * $4::numeric)
	ON CONFLICT (carrito_id, producto_restaurante_id) DO UPDATE
	SET cantidad = carrito_producto.cantidad + EXCLUDED.cantidad,
	    precio_unitario = EXCLUDED.precio_unitario,
	    subtotal = (carrito_producto.cantidad + EXCLUDED.cantidad) * EXCLUDED.precio_unitario
	`

	for _, it := range items {
		if _, err := r.db.ExecContext(ctx, query, cartID, it.OfferingID, it.Quantity, it.UnitPrice); err != nil {
			log.Error("failed to upsert cart item",
				zap.Int64("offering_id", it.OfferingID),
				zap.Error(err),
			)
			return err
		}
	}

	log.Debug("cart items upserted", zap.Int("count", len(items)))
	return nil
}

func (r *repository) GetItems(ctx context.Context, cartID int64) ([]*Item, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, carrito_id, producto_restaurante_id, cantidad, precio_unitario, subtotal
		FROM carrito_producto
		WHERE carrito_id = $1
		ORDER BY id ASC
	`, cartID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get cart items", zap.Int64("cart_id", cartID), zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []*Item{}
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.CartID, &it.OfferingID, &it.Quantity, &it.UnitPrice, &it.Subtotal); err != nil {
			return nil, err
		}
		items = append(items, &it)
	}

	return items, rows.Err()
}

// UpdateItemQuantity sets the quantity of an existing line. A nil unitPrice
// keeps the stored price.
func (r *repository) UpdateItemQuantity(ctx context.Context, cartID, offeringID int64, quantity int, unitPrice *float64) error {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "UpdateItemQuantity"),
		zap.Int64("cart_id", cartID),
		zap.Int64("offering_id", offeringID),
		zap.Int("quantity", quantity),
	)

	var price interface{}
	if unitPrice != nil {
		price = *unitPrice
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE carrito_producto
		SET cantidad = $1::int,
		    precio_unitario = COALESCE($2::numeric, precio_unitario),
		    subtotal = $1::int * COALESCE($2::numeric, precio_unitario)
		WHERE carrito_id = $3 AND producto_restaurante_id = $4
	`, quantity, price, cartID, offeringID)
	if err != nil {
		log.Error("failed to update cart item", zap.Error(err))
		return err
	}

	rowsAffected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrCartItemNotFound
	}

	return nil
}

// DeleteItem returns how many lines were removed; 0 means there was nothing to delete.
func (r *repository) DeleteItem(ctx context.Context, cartID, offeringID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM carrito_producto
		WHERE carrito_id = $1 AND producto_restaurante_id = $2
	`, cartID, offeringID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to delete cart item",
			zap.Int64("cart_id", cartID),
			zap.Int64("offering_id", offeringID),
			zap.Error(err),
		)
		return 0, err
	}
	return res.RowsAffected()
}

// ClearItems deletes every line of the cart and returns how many were removed.
func (r *repository) ClearItems(ctx context.Context, cartID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM carrito_producto WHERE carrito_id = $1`, cartID)
	if err != nil {
		logger.FromCtx(ctx).Error("failed to clear cart", zap.Int64("cart_id", cartID), zap.Error(err))
		return 0, err
	}
	return res.RowsAffected()
}

// GetCompleteItems joins the cart lines with their products. Lines whose
// offering belongs to another restaurant are skipped. The category is the
// first one visible for the restaurant, by orden then id.
func (r *repository) GetCompleteItems(ctx context.Context, cartID, restaurantID int64) ([]completeRow, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "GetCompleteItems"),
		zap.Int64("cart_id", cartID),
		zap.Int64("restaurant_id", restaurantID),
	)

	query := `
	SELECT
		p.id,
		p.nombre,
		cp.precio_unitario,
		p.imagen_url,
		vc.nombre,
		cp.cantidad
	FROM carrito_producto cp
	JOIN producto_restaurante pr
		ON pr.id = cp.producto_restaurante_id
		AND pr.restaurante_id = $2
	JOIN producto p ON p.id = pr.producto_id
	LEFT JOIN LATERAL (
		SELECT c.nombre
		FROM producto_categoria pc
		JOIN categoria c ON c.id = pc.categoria_id
		JOIN categoria_restaurante cr
			ON cr.categoria_id = c.id
			AND cr.restaurante_id = pr.restaurante_id
			AND cr.visible = TRUE
		WHERE pc.producto_id = p.id
		ORDER BY cr.orden ASC, c.id ASC
		LIMIT 1
	) vc ON TRUE
	WHERE cp.carrito_id = $1
	ORDER BY cp.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, cartID, restaurantID)
	if err != nil {
		log.Error("failed to query complete cart", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var result []completeRow
	for rows.Next() {
		var row completeRow
		var categoryName sql.NullString
		if err := rows.Scan(
			&row.ProductID,
			&row.Name,
			&row.UnitPrice,
			&row.ImageURL,
			&categoryName,
			&row.Quantity,
		); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		if categoryName.Valid {
			row.CategoryName = &categoryName.String
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return result, nil
}
