package api

import (
	"fmt"
	"net/http"

	"restopos-be/internal/events"

	"github.com/gin-gonic/gin"
)

// restaurantParam reads :id and enforces restaurant scoping. It writes the
// response and returns false when the request must stop.
func restaurantParam(c *gin.Context) (int64, bool) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "restauranteId inválido")
		return 0, false
	}
	if !allowRestaurant(c, id) {
		return 0, false
	}
	return id, true
}

// GET /api/restaurantes
func (h *Handler) ListRestaurants(c *gin.Context) {
	list, err := h.restaurants.ListRestaurants(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"restaurantes": list})
}

// GET /api/mesas
// Staff bound to a restaurant only see its tables.
func (h *Handler) ListAllTables(c *gin.Context) {
	restaurantID, allowed := scopeRestaurant(c, 0)
	if !allowed {
		return
	}
	tables, err := h.restaurants.ListTables(c.Request.Context(), restaurantID)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"mesas": tables})
}

// GET /api/restaurantes/:id/mesas
func (h *Handler) ListTables(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	tables, err := h.restaurants.ListTables(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"mesas": tables})
}

// GET /api/restaurantes/:id/mesas/activas
func (h *Handler) ListActiveTables(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	ids, err := h.restaurants.ActiveTableIDs(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"mesaIds": ids})
}

// GET /api/restaurantes/:id/domicilios
func (h *Handler) ListDeliveries(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	list, err := h.restaurants.ListDeliveriesByRestaurant(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"domicilios": list})
}

// GET /api/restaurantes/:id/domicilios/activos
func (h *Handler) ListActiveDeliveries(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	ids, err := h.restaurants.ActiveDeliveryIDs(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"domicilioIds": ids})
}

// GET /api/restaurantes/:id/dashboard
func (h *Handler) Dashboard(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	board, err := h.restaurants.Dashboard(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"dashboard": board})
}

// GET /api/restaurantes/:id/productos
func (h *Handler) ListProducts(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	items, err := h.products.ListByRestaurant(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"productos": items})
}

// GET /api/restaurantes/:id/categorias
func (h *Handler) ListRestaurantCategories(c *gin.Context) {
	id, proceed := restaurantParam(c)
	if !proceed {
		return
	}
	cats, err := h.products.ListCategoriesByRestaurant(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"categorias": cats})
}

// GET /api/categorias
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.products.ListCategories(c.Request.Context())
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"categorias": cats})
}

// GET /api/clientes/:id/domicilios
func (h *Handler) ListCustomerDeliveries(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "clienteId inválido")
		return
	}
	list, err := h.restaurants.ListDeliveriesByCustomer(c.Request.Context(), id)
	if err != nil {
		writeError(c, err)
		return
	}
	ok(c, gin.H{"domicilios": list})
}

// PUT /api/mesas/:id/estado
func (h *Handler) SetTableStatus(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		fail(c, http.StatusBadRequest, "mesaId inválido")
		return
	}
	var req estadoMesaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, "estado es obligatorio")
		return
	}

	ctx := c.Request.Context()
	table, err := h.restaurants.GetTable(ctx, id)
	if err != nil {
		writeError(c, err)
		return
	}
	if !allowRestaurant(c, table.RestaurantID) {
		return
	}

	if err := h.restaurants.SetTableStatus(ctx, id, req.Estado); err != nil {
		writeError(c, err)
		return
	}

	e := events.New(events.TableStatusChanged, fmt.Sprintf("mesa:%d", id))
	e.Status = req.Estado
	e.RestaurantID = table.RestaurantID
	events.Emit(ctx, h.publisher, e)

	ok(c, gin.H{"mesaId": id, "estado": req.Estado})
}
