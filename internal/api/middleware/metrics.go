package middleware

import (
	"time"

	"github.com/engabdalla/portfolio-api/internal/metrics"

	"github.com/gin-gonic/gin"
)

// HTTPMetrics records request counts and latency by route template
func HTTPMetrics(m *metrics.Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		m.ObserveHTTP(c.FullPath(), c.Request.Method, c.Writer.Status(), time.Since(start))
	}
}
