package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/stemsi/coursequiz/internal/config"
	"github.com/stemsi/coursequiz/internal/handler"
	"github.com/stemsi/coursequiz/internal/middleware"
	"github.com/stemsi/coursequiz/internal/response"
)

// SetupRouter configures the notification bridge routes.
func SetupRouter(notifications *handler.NotificationHandler, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.New()
	router.Use(gin.Recovery())

	// ─── CORS ──────────────────────────────────────────────────────────
	// Restrict to AllowedOrigins when set; otherwise allow all.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	router.Use(response.RequestIDMiddleware())

	router.GET("/healthz", notifications.Health)

	// ─── WebSocket ─────────────────────────────────────────────────────
	ws := router.Group("/ws")
	ws.Use(middleware.RequireBridgeToken(cfg.BridgeToken))
	{
		ws.GET("/notifications", notifications.Stream)
	}

	return router
}
