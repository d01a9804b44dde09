package utils

import (
	"net/http"

	"github.com/engabdalla/portfolio-api/internal/api/dto/common"

	"github.com/gin-gonic/gin"
)

// HandleMessage sends a 200 response with just a message
func HandleMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, common.NewMessageResponse(message))
}
