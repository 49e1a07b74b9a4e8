package utils

const (
	UserIDKey       contextKey = "user_id"
	UserEmailKey    contextKey = "email"
	UserRoleKey     contextKey = "role"
	RestaurantIDKey contextKey = "restaurant_id"
)

const (
	RoleAdmin   = "ADMIN"
	RoleCashier = "CASHIER"
	RoleWaiter  = "WAITER"
)
