package middlewares

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/hellodine/utils"
)

// RequireRole lets through the given roles. Admin selalu diizinkan.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(utils.CtxRole)
		if !exists {
			utils.AbortError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}

		role, _ := userRole.(string)
		if role == utils.RoleAdmin {
			c.Next()
			return
		}
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		utils.AbortError(c, http.StatusForbidden, fmt.Errorf("%s access required", strings.Join(roles, " or ")))
	}
}
