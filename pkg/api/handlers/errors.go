package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/urmzd/neuracontrol/pkg/api/types"
)

func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, types.ErrorResponse{
		Error:   code,
		Message: message,
	})
}
