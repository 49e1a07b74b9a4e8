package product

import "errors"

var (
	ErrInvalidRestaurantID = errors.New("invalid restaurant id")
	ErrInvalidProductID    = errors.New("invalid product id")
	ErrOfferingNotFound    = errors.New("product is not offered by this restaurant")
)
