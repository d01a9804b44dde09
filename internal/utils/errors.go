package utils

import (
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/logging"

	"github.com/gin-gonic/gin"
)

// HandleAPIError logs err with request context and answers with the public
// message only. Internal error details never reach the client.
func HandleAPIError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	logHTTPError(c, err, status, code, message)
	c.JSON(status, common.NewErrorResponse(message))
}

// AbortWithError logs the rejection under code, sends a failure envelope
// and stops the handler chain
func AbortWithError(c *gin.Context, status int, code common.ErrorCode, message string) {
	logHTTPError(c, nil, status, code, message)
	c.AbortWithStatusJSON(status, common.NewErrorResponse(message))
}

func logHTTPError(c *gin.Context, err error, status int, code common.ErrorCode, message string) {
	logging.GetGlobalLogger().LogHTTPError(
		c.Request.Method,
		c.Request.URL.Path,
		GetRealIP(c),
		status,
		string(code)+": "+message,
		err,
	)
}
