package api

import (
	"errors"
	"strconv"

	"restopos-be/internal/cart"
	"restopos-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type tipoPedidoRequest struct {
	Tipo        string `json:"tipo" binding:"required,oneof=mesa domicilio"`
	MesaID      *int64 `json:"mesaId"`
	DomicilioID *int64 `json:"domicilioId"`
}

func (t tipoPedidoRequest) target() cart.OrderTarget {
	return cart.OrderTarget{
		Kind:       cart.TargetKind(t.Tipo),
		TableID:    utils.PtrInt64(t.MesaID),
		DeliveryID: utils.PtrInt64(t.DomicilioID),
	}
}

type productoRequest struct {
	ProductoID     int64   `json:"productoId" binding:"required"`
	Cantidad       int     `json:"cantidad" binding:"required"`
	PrecioUnitario float64 `json:"precioUnitario"`
	// Subtotal is accepted for compatibility and ignored; it is recomputed.
	Subtotal float64 `json:"subtotal"`
}

type crearCarritoRequest struct {
	TipoPedido  tipoPedidoRequest `json:"tipoPedido"`
	CarritoData struct {
		RestauranteID int64             `json:"restauranteId" binding:"required"`
		ClienteID     *int64            `json:"clienteId"`
		Productos     []productoRequest `json:"productos" binding:"required,min=1,dive"`
	} `json:"carritoData"`
}

type agregarProductoRequest struct {
	CarritoID      int64   `json:"carritoId" binding:"required"`
	RestauranteID  int64   `json:"restauranteId"`
	ProductoID     int64   `json:"productoId" binding:"required"`
	Cantidad       int     `json:"cantidad"`
	PrecioUnitario float64 `json:"precioUnitario"`
}

type actualizarCantidadRequest struct {
	CarritoID             int64    `json:"carritoId" binding:"required"`
	RestauranteID         int64    `json:"restauranteId"`
	ProductoID            int64    `json:"productoId"`
	ProductoRestauranteID int64    `json:"productoRestauranteId"`
	Cantidad              int      `json:"cantidad"`
	PrecioUnitario        *float64 `json:"precioUnitario"`
}

type eliminarProductoRequest struct {
	CarritoID             int64 `json:"carritoId" binding:"required"`
	RestauranteID         int64 `json:"restauranteId"`
	ProductoID            int64 `json:"productoId"`
	ProductoRestauranteID int64 `json:"productoRestauranteId"`
}

type limpiarCarritoRequest struct {
	CarritoID     int64             `json:"carritoId" binding:"required"`
	RestauranteID int64             `json:"restauranteId"`
	TipoPedido    tipoPedidoRequest `json:"tipoPedido"`
}

type loginRequest struct {
	Correo     string `json:"correo" binding:"required"`
	Contrasena string `json:"contrasena" binding:"required"`
}

var errBadID = errors.New("invalid id")

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		return 0, errBadID
	}
	return id, nil
}

// queryTarget reads ?tipo=mesa|domicilio&id=N.
func queryTarget(c *gin.Context) (cart.OrderTarget, error) {
	id, err := utils.ParseID(c.Query("id"))
	if err != nil {
		return cart.OrderTarget{}, cart.ErrInvalidOrderTarget
	}

	switch cart.TargetKind(c.Query("tipo")) {
	case cart.TargetTable:
		return cart.TableTarget(id), nil
	case cart.TargetDelivery:
		return cart.DeliveryTarget(id), nil
	}
	return cart.OrderTarget{}, cart.ErrInvalidOrderTarget
}

// optionalQueryID returns 0 when the parameter is absent.
func optionalQueryID(c *gin.Context, name string) (int64, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	return strconv.ParseInt(raw, 10, 64)
}

type estadoMesaRequest struct {
	Estado string `json:"estado" binding:"required"`
}
