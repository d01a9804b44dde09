package routes

import (
	"github.com/engabdalla/portfolio-api/internal/api/handlers"

	"github.com/gin-gonic/gin"
)

// SetupContactRoutes configures the contact form endpoint. The per-client
// window runs before the body is parsed, so malformed requests still count.
func SetupContactRoutes(router *gin.RouterGroup, contact *handlers.ContactHandler, m *Middleware) {
	router.POST("/contact",
		m.ContactRateLimit,
		m.Validation.ValidateContactRequest(),
		contact.Submit,
	)
}
