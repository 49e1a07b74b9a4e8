package cart

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// -- Validation & Input --
	ErrInvalidOrderTarget = errors.New("invalid order target")
	ErrInvalidCartInput   = errors.New("invalid cart input")
	ErrInvalidQuantity    = errors.New("invalid cart quantity")
	ErrInvalidCartID      = errors.New("invalid cart id")

	// -- Resource State --
	ErrOrderTypeNotFound = errors.New("order type not found")
	ErrCartNotFound      = errors.New("active cart not found")
	ErrCartItemNotFound  = errors.New("cart item not found")
	ErrCartBusy          = errors.New("cart is being modified by another request")

	// -- Authorization --
	ErrRestaurantMismatch = errors.New("cart belongs to another restaurant")

	// -- Constants (External Systems) --
	PgUniqueViolation = "23505"
)

// ProductsUnavailableError lists products that have no offering in the
// restaurant the cart belongs to.
type ProductsUnavailableError struct {
	ProductIDs []int64
}

func (e *ProductsUnavailableError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = fmt.Sprint(id)
	}
	return "Productos no disponibles en este restaurante: " + strings.Join(ids, ", ")
}
