package product

import (
	"context"
	"database/sql"
	"errors"

	"restopos-be/internal/logger"

	"github.com/lib/pq"
	"go.uber.org/zap"
)

type Repository interface {
	ListAvailableByRestaurant(ctx context.Context, restaurantID int64) ([]*CatalogItem, error)
	ListCategories(ctx context.Context) ([]*Category, error)
	ListCategoriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Category, error)
	MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error)
	GetOfferingID(ctx context.Context, productID, restaurantID int64) (*int64, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// A zero precio_venta counts as unset and falls back to the base price.
func (r *repository) ListAvailableByRestaurant(ctx context.Context, restaurantID int64) ([]*CatalogItem, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListAvailableByRestaurant"),
		zap.Int64("restaurant_id", restaurantID),
	)

	query := `
	SELECT
		p.id,
		pr.id,
		p.nombre,
		COALESCE(NULLIF(pr.precio_venta, 0), p.precio),
		p.imagen_url,
		vc.nombre
	FROM producto_restaurante pr
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
	WHERE pr.restaurante_id = $1
	  AND pr.disponible = TRUE
	ORDER BY p.nombre ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, restaurantID)
	if err != nil {
		log.Error("failed to query catalog", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	items := []*CatalogItem{}
	for rows.Next() {
		var it CatalogItem
		var categoryName sql.NullString
		if err := rows.Scan(&it.ID, &it.OfferingID, &it.Name, &it.Price, &it.Image, &categoryName); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		if categoryName.Valid {
			it.CategoryName = &categoryName.String
		}
		items = append(items, &it)
	}

	if err := rows.Err(); err != nil {
		log.Error("rows iteration failed", zap.Error(err))
		return nil, err
	}

	return items, nil
}

func (r *repository) ListCategories(ctx context.Context) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCategories"),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, nombre, descripcion, orden
		FROM categoria
		ORDER BY orden ASC, nombre ASC
	`)
	if err != nil {
		log.Error("failed to query categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func (r *repository) ListCategoriesByRestaurant(ctx context.Context, restaurantID int64) ([]*Category, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "ListCategoriesByRestaurant"),
		zap.Int64("restaurant_id", restaurantID),
	)

	rows, err := r.db.QueryContext(ctx, `
		SELECT c.id, c.nombre, c.descripcion, cr.orden
		FROM categoria_restaurante cr
		JOIN categoria c ON c.id = cr.categoria_id
		WHERE cr.restaurante_id = $1
		  AND cr.visible = TRUE
		ORDER BY cr.orden ASC, c.id ASC
	`, restaurantID)
	if err != nil {
		log.Error("failed to query restaurant categories", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return scanCategories(rows)
}

func scanCategories(rows *sql.Rows) ([]*Category, error) {
	categories := []*Category{}
	for rows.Next() {
		var c Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.Order); err != nil {
			return nil, err
		}
		categories = append(categories, &c)
	}
	return categories, rows.Err()
}

func (r *repository) MapOfferings(ctx context.Context, restaurantID int64, productIDs []int64) (map[int64]int64, error) {
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "repository"),
		zap.String("method", "MapOfferings"),
		zap.Int64("restaurant_id", restaurantID),
		zap.Int64s("product_ids", productIDs),
	)

	result := make(map[int64]int64, len(productIDs))
	if len(productIDs) == 0 {
		return result, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT producto_id, id
		FROM producto_restaurante
		WHERE restaurante_id = $1
		  AND producto_id = ANY($2)
	`, restaurantID, pq.Array(productIDs))
	if err != nil {
		log.Error("failed to map offerings", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var productID, offeringID int64
		if err := rows.Scan(&productID, &offeringID); err != nil {
			log.Error("row scan failed", zap.Error(err))
			return nil, err
		}
		result[productID] = offeringID
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	log.Debug("offerings mapped", zap.Int("found", len(result)))
	return result, nil
}

func (r *repository) GetOfferingID(ctx context.Context, productID, restaurantID int64) (*int64, error) {
	var id int64
	err := r.db.QueryRowContext(ctx, `
		SELECT id
		FROM producto_restaurante
		WHERE producto_id = $1 AND restaurante_id = $2
	`, productID, restaurantID).Scan(&id)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("failed to get offering id",
			zap.Int64("product_id", productID),
			zap.Int64("restaurant_id", restaurantID),
			zap.Error(err),
		)
		return nil, err
	}

	return &id, nil
}
