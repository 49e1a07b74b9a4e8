package api

import (
	"net/http"

	"restopos-be/internal/events"
	"restopos-be/internal/logger"
	"restopos-be/internal/metrics"
	"restopos-be/internal/middleware"

	"github.com/gin-gonic/gin"
)

type RouterConfig struct {
	CORSOrigins  []string
	AuthRequired bool
}

// NewRouter registers every HTTP route. Request id, logging, rate limiting
// and token parsing wrap the engine as plain http middleware.
func NewRouter(h *Handler, hub *events.Hub, stats *metrics.CartLifecycle, cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		body := gin.H{"status": "OK"}
		if stats != nil {
			body["metrics"] = stats.Snapshot()
		}
		if hub != nil {
			body["dashboardClients"] = hub.Count()
		}
		c.JSON(http.StatusOK, body)
	})

	r.POST("/auth/login", h.Login)
	r.POST("/auth/logout", h.Logout)

	protected := []gin.HandlerFunc{}
	if cfg.AuthRequired {
		protected = append(protected, middleware.RequireStaff())
	}

	if hub != nil {
		r.GET("/ws/dashboard", append(protected, hub.HandleWebSocket)...)
	}

	apiGroup := r.Group("/api", protected...)

	carrito := apiGroup.Group("/carrito")
	carrito.POST("/crear", h.CreateCart)
	carrito.POST("/agregar-producto", h.AddItem)
	carrito.POST("/actualizar-cantidad", h.UpdateQuantity)
	carrito.POST("/eliminar-producto", h.RemoveItem)
	carrito.POST("/limpiar-vacio", h.ClearCart)
	carrito.GET("/activo", h.GetActiveCart)
	carrito.GET("/obtener-completo", h.GetCompleteCart)

	apiGroup.GET("/restaurantes", h.ListRestaurants)
	restaurantes := apiGroup.Group("/restaurantes/:id")
	restaurantes.GET("/mesas", h.ListTables)
	restaurantes.GET("/mesas/activas", h.ListActiveTables)
	restaurantes.GET("/domicilios", h.ListDeliveries)
	restaurantes.GET("/domicilios/activos", h.ListActiveDeliveries)
	restaurantes.GET("/dashboard", h.Dashboard)
	restaurantes.GET("/productos", h.ListProducts)
	restaurantes.GET("/categorias", h.ListRestaurantCategories)

	apiGroup.GET("/mesas", h.ListAllTables)
	apiGroup.PUT("/mesas/:id/estado", h.SetTableStatus)
	apiGroup.GET("/categorias", h.ListCategories)
	apiGroup.GET("/clientes/:id/domicilios", h.ListCustomerDeliveries)

	r.NoRoute(func(c *gin.Context) {
		fail(c, http.StatusNotFound, "ruta no encontrada")
	})

	return r
}

// Wrap applies the http middleware chain around the gin engine.
func Wrap(engine http.Handler) http.Handler {
	var h http.Handler = engine
	h = middleware.RateLimitMiddleware(h)
	h = middleware.AuthMiddleware(h)
	h = logger.LoggingMiddleware(h)
	h = logger.RequestIDMiddleware(h)
	return h
}
