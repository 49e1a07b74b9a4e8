package api

import (
	"errors"
	"net/http"

	"restopos-be/internal/cart"
	"restopos-be/internal/logger"
	"restopos-be/internal/product"
	"restopos-be/internal/restaurant"
	"restopos-be/internal/staff"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func ok(c *gin.Context, body gin.H) {
	if body == nil {
		body = gin.H{}
	}
	body["success"] = true
	c.JSON(http.StatusOK, body)
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, gin.H{"success": false, "error": msg})
}

func statusFor(err error) int {
	var unavailable *cart.ProductsUnavailableError

	switch {
	case errors.As(err, &unavailable),
		errors.Is(err, cart.ErrCartBusy):
		return http.StatusConflict

	case errors.Is(err, cart.ErrInvalidOrderTarget),
		errors.Is(err, cart.ErrInvalidCartInput),
		errors.Is(err, cart.ErrInvalidQuantity),
		errors.Is(err, cart.ErrInvalidCartID),
		errors.Is(err, product.ErrInvalidRestaurantID),
		errors.Is(err, product.ErrInvalidProductID),
		errors.Is(err, restaurant.ErrInvalidRestaurantID),
		errors.Is(err, restaurant.ErrInvalidCustomerID),
		errors.Is(err, restaurant.ErrInvalidTableStatus):
		return http.StatusBadRequest

	case errors.Is(err, cart.ErrOrderTypeNotFound),
		errors.Is(err, cart.ErrCartNotFound),
		errors.Is(err, cart.ErrCartItemNotFound),
		errors.Is(err, product.ErrOfferingNotFound),
		errors.Is(err, restaurant.ErrTableNotFound):
		return http.StatusNotFound

	case errors.Is(err, cart.ErrRestaurantMismatch):
		return http.StatusForbidden

	case errors.Is(err, staff.ErrInvalidCredentials):
		return http.StatusUnauthorized
	}

	return http.StatusInternalServerError
}

// writeError maps service errors to their HTTP status. Unexpected errors are
// logged and reported without detail.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		logger.FromCtx(c.Request.Context()).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err),
		)
		fail(c, status, "internal server error")
		return
	}
	fail(c, status, err.Error())
}
