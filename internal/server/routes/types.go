package routes

import (
	"github.com/engabdalla/portfolio-api/internal/api/handlers"
	"github.com/engabdalla/portfolio-api/internal/api/middleware"
	"github.com/engabdalla/portfolio-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// Handlers contains all the route handlers
type Handlers struct {
	Contact *handlers.ContactHandler
	Health  *handlers.HealthHandler
}

// Middleware contains the route specific middleware
type Middleware struct {
	Validation       *middleware.ValidationMiddleware
	GlobalRateLimit  gin.HandlerFunc
	ContactRateLimit gin.HandlerFunc
	// Metrics is nil when METRICS_ENABLED is off
	Metrics *metrics.Metrics
}
