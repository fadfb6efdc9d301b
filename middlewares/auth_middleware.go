package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hellodine/utils"
)

// AuthMiddleware requires a staff bearer token and stores its claims on the context.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("authorization header missing"))
			return
		}
		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("format token tidak valid"))
			return
		}

		if !setClaims(c, strings.TrimPrefix(authHeader, "Bearer ")) {
			utils.AbortError(c, http.StatusUnauthorized, errors.New("invalid or expired token"))
			return
		}
		c.Next()
	}
}

func setClaims(c *gin.Context, tokenString string) bool {
	claims, err := utils.ParseToken(tokenString)
	if err != nil || claims == nil || claims.UserID == 0 {
		return false
	}
	c.Set(utils.CtxUserID, claims.UserID)
	c.Set(utils.CtxRole, claims.Role)
	c.Set(utils.CtxBranchID, claims.BranchID)
	return true
}
