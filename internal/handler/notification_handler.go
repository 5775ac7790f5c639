package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
	"github.com/stemsi/coursequiz/internal/notify"
	"github.com/stemsi/coursequiz/internal/response"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowedOrigins slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// NotificationHandler streams notifications to browser tabs.
type NotificationHandler struct {
	hub      *notify.Hub
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(hub *notify.Hub, log zerolog.Logger, allowedOrigins []string) *NotificationHandler {
	return &NotificationHandler{
		hub:      hub,
		log:      log.With().Str("component", "notification_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// Stream godoc
// WS /ws/notifications
// Upgrades to WebSocket and forwards every notification until the client leaves.
func (h *NotificationHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	h.hub.Serve(conn)
}

// Health godoc
// GET /healthz
func (h *NotificationHandler) Health(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{
		"status":      "ok",
		"subscribers": h.hub.Clients(),
	})
}
