package utils

import "context"

type contextKey string

// SetUserContext sets staff info into context (called by middleware)
func SetUserContext(ctx context.Context, id uint, email string, role string) context.Context {
	ctx = context.WithValue(ctx, UserIDKey, id)
	ctx = context.WithValue(ctx, UserEmailKey, email)
	ctx = context.WithValue(ctx, UserRoleKey, role)
	return ctx
}

// WithRestaurant records the restaurant a staff token is bound to.
func WithRestaurant(ctx context.Context, restaurantID int64) context.Context {
	return context.WithValue(ctx, RestaurantIDKey, restaurantID)
}

// GetUserIDFromContext retrieves the staff id safely
func GetUserIDFromContext(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(UserIDKey).(uint)
	return id, ok
}

func GetUserEmailFromContext(ctx context.Context) string {
	email, _ := ctx.Value(UserEmailKey).(string)
	return email
}

func GetUserRoleFromContext(ctx context.Context) string {
	role, _ := ctx.Value(UserRoleKey).(string)
	return role
}

func GetRestaurantIDFromContext(ctx context.Context) (int64, bool) {
	id, ok := ctx.Value(RestaurantIDKey).(int64)
	return id, ok && id > 0
}
