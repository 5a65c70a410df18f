package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"animeshow/internal/metrics"
	"animeshow/internal/microservices/http-api/handler"
	"animeshow/internal/microservices/http-api/middleware"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database is reachable
type Pinger func(ctx context.Context) error

// RouterConfig holds everything the HTTP API needs
type RouterConfig struct {
	Characters  *handler.CharacterHandler
	Ping        Pinger
	Metrics     *metrics.Metrics // nil disables /metrics
	CORSOrigins []string
	Logger      *slog.Logger
}

// NewRouter builds the gin engine with middleware and all routes
func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(cfg.Logger, cfg.Metrics))
	r.Use(middleware.CORS(cfg.CORSOrigins))

	r.GET("/health", func(c *gin.Context) {
		if cfg.Ping != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := cfg.Ping(ctx); err != nil {
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	if cfg.Metrics != nil {
		r.GET("/metrics", gin.WrapH(cfg.Metrics.Handler()))
	}

	cfg.Characters.RegisterRoutes(r.Group("/api"))
	return r
}
