package middlewares

import "github.com/gin-gonic/gin"

// abortJSON ends the chain with the same error envelope the handlers use.
func abortJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error": gin.H{
			"code":      code,
			"message":   message,
			"requestId": c.GetString(CtxRequestID),
		},
	})
}
