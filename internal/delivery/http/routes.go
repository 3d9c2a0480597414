package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/salamyar/backend/config"
)

// SetupRouter creates and configures the Gin router. /metrics is served
// only when gatherer is non-nil.
func SetupRouter(cfg *config.Config, handler *Handler, gatherer prometheus.Gatherer) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(RequestIDMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))
	router.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))

	router.GET("/", handler.Root)
	router.GET("/health", handler.HealthCheck)

	if gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))
	}

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		search := v1.Group("/search")
		{
			search.GET("/products", handler.SearchProducts)
		}

		selections := v1.Group("/selections")
		{
			selections.POST("/products", handler.SelectProduct)
			selections.GET("/products", handler.ListSelections)
			selections.DELETE("/products", handler.ClearSelections)
			selections.DELETE("/products/:product_id", handler.RemoveSelection)
			selections.GET("/vendors/:vendor_id", handler.ListVendorSelections)
			selections.POST("/confirm", handler.ConfirmSelections)
		}
	}

	return router
}
