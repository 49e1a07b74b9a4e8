package api

import (
	"net/http"

	"restopos-be/internal/cart"

	"github.com/gin-gonic/gin"
)

// POST /api/carrito/crear
func (h *Handler) CreateCart(c *gin.Context) {
	var req crearCarritoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "datos de carrito inválidos")
		return
	}
	if !allowRestaurant(c, req.CarritoData.RestauranteID) {
		return
	}

	input := cart.CartInput{
		RestaurantID: req.CarritoData.RestauranteID,
		CustomerID:   req.CarritoData.ClienteID,
		Products:     make([]cart.ProductInput, 0, len(req.CarritoData.Productos)),
	}
	for _, p := range req.CarritoData.Productos {
		input.Products = append(input.Products, cart.ProductInput{
			ProductID: p.ProductoID,
			Quantity:  p.Cantidad,
			UnitPrice: p.PrecioUnitario,
		})
	}

	res, err := h.carts.CreateCart(c.Request.Context(), req.TipoPedido.target(), input)
	if err != nil {
		writeError(c, err)
		return
	}

	ok(c, gin.H{
		"carritoId":        res.CartID,
		"tipoPedidoId":     res.OrderTypeID,
		"carritoCreado":    res.CartCreated,
		"carritoReabierto": res.CartReopened,
		"mesaOcupada":      res.TableOccupied,
	})
}

// POST /api/carrito/agregar-producto
func (h *Handler) AddItem(c *gin.Context) {
	var req agregarProductoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "datos de producto inválidos")
		return
	}
	restaurantID, allowed := scopeRestaurant(c, req.RestauranteID)
	if !allowed {
		return
	}

	err := h.carts.AddItem(c.Request.Context(), cart.AddItemParams{
		CartID:       req.CarritoID,
		RestaurantID: restaurantID,
		ProductID:    req.ProductoID,
		Quantity:     req.Cantidad,
		UnitPrice:    req.PrecioUnitario,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"carritoId": req.CarritoID})
}

// POST /api/carrito/actualizar-cantidad
func (h *Handler) UpdateQuantity(c *gin.Context) {
	var req actualizarCantidadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "datos de cantidad inválidos")
		return
	}
	restaurantID, allowed := scopeRestaurant(c, req.RestauranteID)
	if !allowed {
		return
	}

	err := h.carts.UpdateQuantity(c.Request.Context(), cart.UpdateQuantityParams{
		CartID:       req.CarritoID,
		OfferingID:   req.ProductoRestauranteID,
		ProductID:    req.ProductoID,
		RestaurantID: restaurantID,
		Quantity:     req.Cantidad,
		UnitPrice:    req.PrecioUnitario,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"carritoId": req.CarritoID, "eliminado": req.Cantidad <= 0})
}

// POST /api/carrito/eliminar-producto
func (h *Handler) RemoveItem(c *gin.Context) {
	var req eliminarProductoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "datos de producto inválidos")
		return
	}
	restaurantID, allowed := scopeRestaurant(c, req.RestauranteID)
	if !allowed {
		return
	}

	err := h.carts.RemoveItem(c.Request.Context(), cart.RemoveItemParams{
		CartID:       req.CarritoID,
		OfferingID:   req.ProductoRestauranteID,
		ProductID:    req.ProductoID,
		RestaurantID: restaurantID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"carritoId": req.CarritoID})
}

// POST /api/carrito/limpiar-vacio
func (h *Handler) ClearCart(c *gin.Context) {
	var req limpiarCarritoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "datos de carrito inválidos")
		return
	}
	restaurantID, allowed := scopeRestaurant(c, req.RestauranteID)
	if !allowed {
		return
	}

	if err := h.carts.ClearCart(c.Request.Context(), req.CarritoID, req.TipoPedido.target(), restaurantID); err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"carritoId": req.CarritoID})
}

// GET /api/carrito/activo?tipo=mesa&id=3
func (h *Handler) GetActiveCart(c *gin.Context) {
	target, err := queryTarget(c)
	if err != nil {
		writeError(c, err)
		return
	}

	active, err := h.carts.GetActiveCart(c.Request.Context(), target)
	if err != nil {
		writeError(c, err)
		return
	}
	if active != nil && !allowRestaurant(c, active.RestaurantID) {
		return
	}
	ok(c, gin.H{"carrito": active})
}

// GET /api/carrito/obtener-completo?tipo=mesa&id=3&restauranteId=1
func (h *Handler) GetCompleteCart(c *gin.Context) {
	target, err := queryTarget(c)
	if err != nil {
		writeError(c, err)
		return
	}
	restaurantID, err := optionalQueryID(c, "restauranteId")
	if err != nil || restaurantID < 0 {
		fail(c, http.StatusBadRequest, "restauranteId inválido")
		return
	}
	restaurantID, allowed := scopeRestaurant(c, restaurantID)
	if !allowed {
		return
	}

	complete, err := h.carts.GetCompleteCart(c.Request.Context(), target, restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"carritoId": complete.CartID, "productos": complete.Products})
}
