package middlewares

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hostsuite/frontdesk/utils"
)

// RequireRole -> admin always passes, otherwise the user's role must be
// in the allowed set.
func RequireRole(allowed ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userRole, exists := c.Get("role")
		if !exists {
			utils.RespondError(c, http.StatusUnauthorized, fmt.Errorf("unauthorized"))
			c.Abort()
			return
		}

		role, _ := userRole.(string)
		if role == "admin" {
			c.Next()
			return
		}
		for _, a := range allowed {
			if role == a {
				c.Next()
				return
			}
		}

		utils.RespondError(c, http.StatusForbidden, fmt.Errorf("%s access required", allowed[0]))
		c.Abort()
	}
}
