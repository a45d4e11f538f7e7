package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"causelist-backend/internal/shared/config"
	"causelist-backend/internal/shared/metrics"
	"causelist-backend/internal/shared/server/middleware"
)

// RouteRegistrar attaches a group of routes under an API router group.
type RouteRegistrar interface {
	RegisterRoutes(rg *gin.RouterGroup)
}

// NewRouter assembles the gin engine: middleware chain, health endpoint, and
// every registrar's routes under /api/v1.
func NewRouter(cfg config.Config, registrars ...RouteRegistrar) *gin.Engine {
	if cfg.Env == "prod" || cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS(cfg.CORSAllowOrigin))
	r.Use(middleware.Auth(cfg.Env))
	r.Use(middleware.RateLimit(rateLimitConfig()))

	r.GET("/api/v1/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api/v1")
	api.GET("/metrics", middleware.RequireAdmin(), metrics.Handler())
	registerMeRoutes(api)
	for _, reg := range registrars {
		reg.RegisterRoutes(api)
	}

	return r
}

// rateLimitConfig groups requests so the dashboard can poll progress and
// status frequently while scraper triggers stay tightly limited.
func rateLimitConfig() middleware.RateLimitConfig {
	return middleware.RateLimitConfig{
		DefaultGroup: "DEFAULT",
		GroupFor: func(c *gin.Context) string {
			path := c.FullPath()
			switch {
			case c.Request.Method == http.MethodGet &&
				(path == "/api/v1/scraper/progress" || path == "/api/v1/scraper/status"):
				return "POLLING"
			case c.Request.Method == http.MethodPost &&
				(path == "/api/v1/scraper/fetch-court-data" || path == "/api/v1/scraper/stop"):
				return "TRIGGER"
			default:
				return "DEFAULT"
			}
		},
		Rules: map[string]middleware.RateLimitRule{
			"DEFAULT": {Rate: 5, Burst: 20},
			"POLLING": {Rate: 10, Burst: 30},
			"TRIGGER": {Rate: 0.5, Burst: 5},
		},
	}
}

// Addr returns the listen address for the configured port.
func Addr(cfg config.Config) string {
	return ":" + cfg.Port
}
