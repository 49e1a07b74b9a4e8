package staff

import (
	"context"
	"strings"

	"restopos-be/internal/logger"

	"go.uber.org/zap"
)

type Service interface {
	Login(ctx context.Context, email, password string) (*LoginResult, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// Login reports ErrInvalidCredentials for both unknown email and wrong
// password.
func (s *service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	email = strings.TrimSpace(email)
	log := logger.FromCtx(ctx).With(
		zap.String("layer", "service"),
		zap.String("method", "Login"),
		zap.String("email", email),
	)

	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	st, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if st == nil {
		log.Info("email not found")
		return nil, ErrInvalidCredentials
	}

	if !CheckPasswordHash(password, st.Password) {
		log.Info("password mismatch")
		return nil, ErrInvalidCredentials
	}

	token, err := GenerateJWT(*st)
	if err != nil {
		log.Error("failed to generate jwt", zap.Error(err))
		return nil, err
	}

	log.Info("login succeeded", zap.Int64("staff_id", st.ID))
	return &LoginResult{
		Token:        token,
		ID:           st.ID,
		Email:        st.Email,
		Role:         st.Role,
		RestaurantID: st.RestaurantID,
	}, nil
}
