package middlewares

import (
	"github.com/gin-gonic/gin"

	"github.com/hostsuite/frontdesk/utils"
)

// WebSocketAuthMiddleware -> browsers cannot set headers on a ws
// upgrade, so the token rides in the query string.
func WebSocketAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.Query("token")
		if token == "" {
			c.AbortWithStatus(401)
			return
		}

		claims, err := utils.ValidateToken(token)
		if err != nil {
			c.AbortWithStatus(401)
			return
		}

		c.Set("role", claims.Role)
		c.Set("user_id", claims.UserID)
		if claims.RestaurantID != nil {
			c.Set("restaurant_id", *claims.RestaurantID)
		}

		c.Next()
	}
}
