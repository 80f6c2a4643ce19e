package middlewares

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/bakery-app/utils"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "user_id"
	ContextRole     = "role"
	ContextToken    = "token"
	ContextTokenExp = "token_exp"
)

// AuthMiddleware accepts "Authorization: Bearer <jwt>" or, for WebSocket
// upgrades where browsers cannot set headers, a ?token= query parameter.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("Authorization header missing"))
			return
		}

		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("Invalid or expired token"))
			return
		}
		if claims.UserID == 0 {
			utils.AbortWithError(c, http.StatusUnauthorized, errors.New("Invalid user ID in token"))
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextToken, tokenString)
		if claims.ExpiresAt != nil {
			c.Set(ContextTokenExp, claims.ExpiresAt.Time)
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	if header := c.GetHeader("Authorization"); header != "" {
		if !strings.HasPrefix(header, "Bearer ") {
			return ""
		}
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return c.Query("token")
}
