package staff

import "restopos-be/internal/utils"

type Role string

const (
	RoleAdmin   Role = utils.RoleAdmin
	RoleCashier Role = utils.RoleCashier
	RoleWaiter  Role = utils.RoleWaiter
)

// Staff is a POS user (usuario table).
type Staff struct {
	ID           int64
	Email        string
	Password     string
	Role         Role
	RestaurantID *int64
}

type LoginResult struct {
	Token        string `json:"token"`
	ID           int64  `json:"id"`
	Email        string `json:"correo"`
	Role         Role   `json:"rol"`
	RestaurantID *int64 `json:"restauranteId"`
}
