package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/use-agent/roastscrape/api/handler"
	"github.com/use-agent/roastscrape/api/middleware"
	"github.com/use-agent/roastscrape/cache"
	"github.com/use-agent/roastscrape/config"
	"github.com/use-agent/roastscrape/engine"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health sits outside auth so monitoring probes always work.
func NewRouter(d *engine.Dispatcher, stats handler.StatsFunc, cfg *config.Config, cc *cache.Cache, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	v1.GET("/health", handler.Health(d.Plan(), stats, startTime))

	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/acquire", handler.Acquire(d, cc))

	return r
}
