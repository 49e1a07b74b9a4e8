package staff

import (
	"context"
	"database/sql"
	"errors"

	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

type Repository interface {
	FindByEmail(ctx context.Context, email string) (*Staff, error)
}

type repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) Repository {
	return &repository{db: db}
}

// FindByEmail returns nil, nil when no staff member has the email.
func (r *repository) FindByEmail(ctx context.Context, email string) (*Staff, error) {
	var s Staff
	err := r.db.QueryRowContext(ctx,
		"SELECT id, correo, contrasena, rol, restaurante_id FROM usuario WHERE LOWER(correo) = LOWER($1)",
		email,
	).Scan(&s.ID, &s.Email, &s.Password, &s.Role, &s.RestaurantID)

	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		logger.FromCtx(ctx).Error("db: failed to find staff",
			zap.String("email", email),
			zap.Error(err),
		)
		return nil, err
	}

	return &s, nil
}
