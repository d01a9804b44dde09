package utils

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// ForwardedIP returns the client address reported by the edge proxy.
// X-Forwarded-For wins (first, leftmost entry), then CF-Connecting-IP,
// then X-Real-IP. It returns "" when no proxy header is present.
func ForwardedIP(h http.Header) string {
	if forwardedFor := h.Get("X-Forwarded-For"); forwardedFor != "" {
		// Format: client, proxy1, proxy2, ...
		first, _, _ := strings.Cut(forwardedFor, ",")
		if ip := strings.TrimSpace(first); ip != "" {
			return ip
		}
	}

	if ip := strings.TrimSpace(h.Get("CF-Connecting-IP")); ip != "" {
		return ip
	}

	return strings.TrimSpace(h.Get("X-Real-IP"))
}

// GetRealIP is ForwardedIP with a fallback to Gin's ClientIP, for logs
// and metrics where some address is always better than none.
func GetRealIP(c *gin.Context) string {
	if ip := ForwardedIP(c.Request.Header); ip != "" {
		return ip
	}
	return c.ClientIP()
}
