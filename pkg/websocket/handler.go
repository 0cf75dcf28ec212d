package websocket

import (
	"net/http"
	"net/url"
	"time"

	"shelterfund/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type Options struct {
	ReadBufferSize  int
	WriteBufferSize int
	PingInterval    time.Duration
	PongTimeout     time.Duration
	AllowedOrigins  []string
}

type Handler struct {
	hub      *Hub
	upgrader websocket.Upgrader
	options  Options
	logger   *logger.Logger
}

func NewHandler(hub *Hub, options Options, logger *logger.Logger) *Handler {
	if options.PongTimeout <= 0 {
		options.PongTimeout = 60 * time.Second
	}
	if options.PingInterval <= 0 || options.PingInterval >= options.PongTimeout {
		options.PingInterval = options.PongTimeout * 9 / 10
	}

	return &Handler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  options.ReadBufferSize,
			WriteBufferSize: options.WriteBufferSize,
			CheckOrigin:     originChecker(options.AllowedOrigins),
		},
		options: options,
		logger:  logger,
	}
}

// HandleWebSocket upgrades an authenticated request. The auth middleware
// stores the caller's id under "user_id".
func (h *Handler) HandleWebSocket(c *gin.Context) {
	value, exists := c.Get("user_id")
	userID, ok := value.(primitive.ObjectID)
	if !exists || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.WithUserID(userID).WithError(err).Warn("WebSocket upgrade failed")
		return
	}

	client := NewClient(h.hub, conn, userID, h.options.PingInterval, h.options.PongTimeout)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

func originChecker(allowed []string) func(r *http.Request) bool {
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" {
			return true
		}
		for _, o := range allowed {
			if o == "*" || o == origin {
				return true
			}
		}

		u, err := url.Parse(origin)
		return err == nil && u.Host == r.Host
	}
}
