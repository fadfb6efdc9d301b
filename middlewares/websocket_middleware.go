package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// WebSocketAuthMiddleware reads the staff token from the query string, since
// browsers cannot set headers on a websocket handshake.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" || !setClaims(c, token) {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		c.Next()
	}
}
