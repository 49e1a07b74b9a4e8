package restaurant

import "errors"

var (
	ErrInvalidRestaurantID = errors.New("invalid restaurant id")
	ErrInvalidCustomerID   = errors.New("invalid customer id")
	ErrInvalidTableStatus  = errors.New("invalid table status")
	ErrTableNotFound       = errors.New("table not found")
)
