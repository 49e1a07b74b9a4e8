package api

import (
	"net/http"

	"restopos-be/internal/cart"
	"restopos-be/internal/events"
	"restopos-be/internal/product"
	"restopos-be/internal/restaurant"
	"restopos-be/internal/staff"
	"restopos-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	carts       cart.Service
	products    product.Service
	restaurants restaurant.Service
	staff       staff.Service
	publisher   events.Publisher
}

func NewHandler(
	carts cart.Service,
	products product.Service,
	restaurants restaurant.Service,
	staffSvc staff.Service,
	publisher events.Publisher,
) *Handler {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Handler{
		carts:       carts,
		products:    products,
		restaurants: restaurants,
		staff:       staffSvc,
		publisher:   publisher,
	}
}

// scopeRestaurant resolves the restaurant a request acts on. Staff bound to a
// restaurant get theirs when none is named and a 403 when another one is.
// Admins and unbound tokens pass the requested id through, 0 included.
func scopeRestaurant(c *gin.Context, requested int64) (int64, bool) {
	ctx := c.Request.Context()
	bound, scoped := utils.GetRestaurantIDFromContext(ctx)
	if !scoped || utils.GetUserRoleFromContext(ctx) == utils.RoleAdmin {
		return requested, true
	}
	if requested == 0 {
		return bound, true
	}
	if requested != bound {
		fail(c, http.StatusForbidden, "restaurante no autorizado")
		return 0, false
	}
	return requested, true
}

// allowRestaurant rejects staff bound to another restaurant.
func allowRestaurant(c *gin.Context, restaurantID int64) bool {
	_, allowed := scopeRestaurant(c, restaurantID)
	return allowed
}
