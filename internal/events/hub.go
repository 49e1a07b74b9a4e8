package events

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"restopos-be/internal/logger"
	"restopos-be/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

var ErrHubBusy = errors.New("dashboard hub broadcast queue is full")

const writeWait = 5 * time.Second

type subscription struct {
	conn         *websocket.Conn
	restaurantID int64 // 0 receives every event
}

// Hub pushes events to connected dashboard clients.
type Hub struct {
	clients    map[*websocket.Conn]int64
	broadcast  chan Event
	register   chan subscription
	unregister chan *websocket.Conn
	done       chan struct{}
	mu         sync.Mutex
	upgrader   websocket.Upgrader
}

func NewHub() *Hub {
	return &Hub{
		clients:    make(map[*websocket.Conn]int64),
		broadcast:  make(chan Event, 64),
		register:   make(chan subscription),
		unregister: make(chan *websocket.Conn),
		done:       make(chan struct{}),
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Run serves register, unregister and broadcast until ctx is done.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			close(h.done)
			h.mu.Lock()
			for conn := range h.clients {
				conn.Close()
				delete(h.clients, conn)
			}
			h.mu.Unlock()
			return

		case sub := <-h.register:
			h.mu.Lock()
			h.clients[sub.conn] = sub.restaurantID
			h.mu.Unlock()

		case conn := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[conn]; ok {
				delete(h.clients, conn)
				conn.Close()
			}
			h.mu.Unlock()

		case e := <-h.broadcast:
			h.mu.Lock()
			for conn, rid := range h.clients {
				if rid != 0 && rid != e.RestaurantID {
					continue
				}
				conn.SetWriteDeadline(time.Now().Add(writeWait))
				if err := conn.WriteJSON(e); err != nil {
					logger.L().Warn("ws write error", zap.Error(err))
					conn.Close()
					delete(h.clients, conn)
				}
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) Publish(ctx context.Context, e Event) error {
	select {
	case h.broadcast <- e:
		return nil
	default:
		return ErrHubBusy
	}
}

// Count returns the number of connected clients.
func (h *Hub) Count() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// HandleWebSocket serves GET /ws/dashboard?restauranteId=<id>. Staff bound
// to a restaurant are subscribed to it whatever they ask for, and refused
// when they name another one.
func (h *Hub) HandleWebSocket(c *gin.Context) {
	var restaurantID int64
	if raw := c.Query("restauranteId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "restauranteId inválido"})
			return
		}
		restaurantID = id
	}

	ctx := c.Request.Context()
	if bound, scoped := utils.GetRestaurantIDFromContext(ctx); scoped && utils.GetUserRoleFromContext(ctx) != utils.RoleAdmin {
		if restaurantID != 0 && restaurantID != bound {
			c.JSON(http.StatusForbidden, gin.H{"success": false, "error": "restaurante no autorizado"})
			return
		}
		restaurantID = bound
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.FromCtx(c.Request.Context()).Warn("ws upgrade error", zap.Error(err))
		return
	}

	select {
	case h.register <- subscription{conn: conn, restaurantID: restaurantID}:
	case <-h.done:
		conn.Close()
		return
	}

	// Clients only listen; reading detects the close.
	go func() {
		defer func() {
			select {
			case h.unregister <- conn:
			case <-h.done:
			}
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()
}
