package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/utils"
)

// RequireRole lets the request through only when AuthMiddleware stored one
// of the given roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get(ContextRole)
		if !exists {
			utils.AbortWithError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			return
		}

		for _, role := range roles {
			if userRole == role {
				c.Next()
				return
			}
		}
		utils.AbortWithError(c, http.StatusForbidden, fmt.Errorf("%v access required", roles))
	}
}
