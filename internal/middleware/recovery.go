package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/engabdalla/portfolio-api/internal/api/constants"
	"github.com/engabdalla/portfolio-api/internal/api/dto/common"
	"github.com/engabdalla/portfolio-api/internal/logging"

	"github.com/gin-gonic/gin"
)

// MsgUnexpected is the body of any response produced by a recovered panic
const MsgUnexpected = "Unexpected server error"

func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				logging.GetGlobalLogger().Error("[PANIC] %s %s | %s | %s | %v\n%s",
					c.Request.Method,
					c.Request.URL.Path,
					c.ClientIP(),
					c.GetString(constants.ContextKeyRequestID),
					fmt.Sprint(rec),
					debug.Stack(),
				)

				c.AbortWithStatusJSON(http.StatusInternalServerError, common.NewErrorResponse(MsgUnexpected))
			}
		}()

		c.Next()
	}
}
