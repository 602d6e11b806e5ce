package middlewares

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
)

// AdminOnly guards the /admin surface: the role claim must be ADMIN.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists || role != models.RoleAdmin {
			utils.RespondError(c, http.StatusForbidden,
				utils.ForbiddenError("admin access required"))
			c.Abort()
			return
		}
		c.Next()
	}
}
