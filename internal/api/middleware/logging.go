package middleware

import (
	"time"

	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequestLogger logs every request through logger. It is a no-op unless
// LOG_REQUESTS is enabled.
func RequestLogger(logger *logging.Logger) gin.HandlerFunc {
	if !logger.RequestLoggingEnabled() {
		return func(c *gin.Context) {
			c.Next()
		}
	}

	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		logger.LogHTTPRequest(
			method,
			path,
			utils.GetRealIP(c),
			c.Writer.Status(),
			c.Writer.Size(),
			time.Since(start).String(),
		)
	}
}
