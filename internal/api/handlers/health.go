package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/utils"
	"github.com/engabdalla/portfolio-api/internal/version"

	"github.com/gin-gonic/gin"
)

// Pinger is a dependency the health check probes, such as the Redis rate
// limit store
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingerFunc adapts a function to Pinger
type PingerFunc func(ctx context.Context) error

func (f PingerFunc) Ping(ctx context.Context) error { return f(ctx) }

type HealthHandler struct {
	deps map[string]Pinger
}

func NewHealthHandler(deps map[string]Pinger) *HealthHandler {
	return &HealthHandler{deps: deps}
}

func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	for name, dep := range h.deps {
		if err := dep.Ping(ctx); err != nil {
			utils.HandleAPIError(c, err, http.StatusServiceUnavailable, common.ErrCodeInternalServer, name+" unavailable")
			return
		}
	}

	c.JSON(http.StatusOK, common.NewMessageResponse("Health check OK"))
}

// Version returns build information
func (h *HealthHandler) Version(c *gin.Context) {
	c.JSON(http.StatusOK, version.GetBuildInfo())
}
