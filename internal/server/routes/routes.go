package routes

import (
	"net/http"

	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/api/middleware"
	"github.com/engabdalla/portfolio-api/internal/config"
	"github.com/engabdalla/portfolio-api/internal/logging"
	coremw "github.com/engabdalla/portfolio-api/internal/middleware"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
)

// Setup configures all route groups
func Setup(router *gin.Engine, h *Handlers, m *Middleware) {
	logger := logging.GetGlobalLogger()

	SetupHealthRoutes(router, h.Health, m.Metrics)

	api := router.Group("/api")
	SetupContactRoutes(api, h.Contact, m)

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, common.NewErrorResponse("Not found"))
	})
	router.NoMethod(func(c *gin.Context) {
		c.JSON(http.StatusMethodNotAllowed, common.NewErrorResponse("Method not allowed"))
	})
	router.HandleMethodNotAllowed = true

	logger.Info("All routes have been set up successfully")
}

// SetupGlobalMiddleware configures middleware that applies to all routes
func SetupGlobalMiddleware(router *gin.Engine, cfg *config.Config, logger *logging.Logger, m *Middleware) {
	router.Use(coremw.Recovery())
	router.Use(coremw.RequestID())
	router.Use(otelgin.Middleware(cfg.ServiceName))
	router.Use(middleware.RequestLogger(logger))
	router.Use(middleware.HTTPMetrics(m.Metrics))
	router.Use(middleware.CORS(middleware.CORSConfig{
		AllowedOrigins: cfg.AllowedOrigins,
		Development:    !cfg.IsProduction(),
	}))
	router.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	if m.GlobalRateLimit != nil {
		router.Use(m.GlobalRateLimit)
	}
	router.Use(middleware.PreserveRequestBody(cfg.MaxBodyBytes))
}
