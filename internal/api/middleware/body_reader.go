package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"

	"github.com/engabdalla/portfolio-api/internal/api/constants"
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/utils"

	"github.com/gin-gonic/gin"
)

// DefaultMaxBodySize is used when no positive limit is configured
const DefaultMaxBodySize int64 = 64 * 1024

// PreserveRequestBody reads the request body once, up to maxBytes, and
// restores it so validators and handlers can both read it. Larger bodies
// are answered with 413.
func PreserveRequestBody(maxBytes int64) gin.HandlerFunc {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodySize
	}

	return func(c *gin.Context) {
		if c.Request.Body == nil || c.Request.Method != http.MethodPost {
			c.Next()
			return
		}

		if c.Request.ContentLength > maxBytes {
			utils.AbortWithError(c, http.StatusRequestEntityTooLarge, common.ErrCodeTooLarge, "Request body too large")
			return
		}

		bodyBytes, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				utils.AbortWithError(c, http.StatusRequestEntityTooLarge, common.ErrCodeTooLarge, "Request body too large")
				return
			}
			utils.AbortWithError(c, http.StatusBadRequest, common.ErrCodeBadRequest, "Error reading request body")
			return
		}

		// Restore the body for subsequent middleware
		c.Request.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		c.Set(constants.ContextKeyRawBody, bodyBytes)

		c.Next()
	}
}

// RawBody returns the body captured by PreserveRequestBody, reading it
// directly when the middleware did not run
func RawBody(c *gin.Context) ([]byte, error) {
	if v, ok := c.Get(constants.ContextKeyRawBody); ok {
		if b, ok := v.([]byte); ok {
			return b, nil
		}
	}
	if c.Request.Body == nil {
		return nil, nil
	}
	b, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, err
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(b))
	return b, nil
}
