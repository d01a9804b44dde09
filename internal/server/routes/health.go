package routes

import (
	"github.com/engabdalla/portfolio-api/internal/api/handlers"
	"github.com/engabdalla/portfolio-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// SetupHealthRoutes configures health check, version and metrics endpoints
func SetupHealthRoutes(router *gin.Engine, health *handlers.HealthHandler, m *metrics.Metrics) {
	router.GET("/health", health.Check)
	router.GET("/version", health.Version)

	if m != nil {
		router.GET("/metrics", gin.WrapH(m.Handler()))
	}
}
