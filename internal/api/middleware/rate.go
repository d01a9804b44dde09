package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/engabdalla/portfolio-api/internal/api/constants"
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/logging"
	"github.com/engabdalla/portfolio-api/internal/metrics"
	"github.com/engabdalla/portfolio-api/internal/ratelimit"
	"github.com/engabdalla/portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// MsgTooManyRequests is returned for both the global and the per-client limit
const MsgTooManyRequests = "Too many requests. Please try again later."

// RateLimitMiddleware gives every client its own token bucket. It is a
// flood guard in front of the per-client contact window; one client
// running dry never affects another.
func RateLimitMiddleware(buckets *ratelimit.TokenBuckets, now ratelimit.Clock) gin.HandlerFunc {
	if now == nil {
		now = time.Now
	}

	return func(c *gin.Context) {
		if !buckets.Allow(utils.GetRealIP(c), now()) {
			c.Header("Retry-After", "1")
			utils.AbortWithError(c, http.StatusTooManyRequests, common.ErrCodeTooManyRequests, MsgTooManyRequests)
			return
		}
		c.Next()
	}
}

// ContactRateLimit enforces the fixed per-client window on contact
// submissions. The client key comes from proxy headers only; requests
// without one are not limited. A failing store lets the request through.
func ContactRateLimit(limiter *ratelimit.Limiter, m *metrics.Metrics) gin.HandlerFunc {
	logger := logging.GetGlobalLogger()

	return func(c *gin.Context) {
		ip := utils.ForwardedIP(c.Request.Header)
		c.Set(constants.ContextKeyClientIP, ip)

		decision, err := limiter.Allow(c.Request.Context(), ip)
		if err != nil {
			logger.Warn("Rate limit store unavailable, allowing %s: %v", ip, err)
		}

		if decision.Skipped {
			logger.Debug("No client IP on %s %s, contact rate limit skipped", c.Request.Method, c.Request.URL.Path)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(decision.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(decision.Remaining))

		if !decision.Allowed {
			retry := decision.RetryAfter(limiter.Now())
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retry.Seconds()))))
			if !decision.ResetAt.IsZero() {
				c.Header("X-RateLimit-Reset", decision.ResetAt.UTC().Format(time.RFC1123))
			}
			m.RateLimited()
			utils.AbortWithError(c, http.StatusTooManyRequests, common.ErrCodeTooManyRequests, MsgTooManyRequests)
			return
		}

		c.Next()
	}
}
