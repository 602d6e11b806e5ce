package middlewares

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/coffee-shop-app/models"
	"github.com/yeremiapane/coffee-shop-app/utils"
	"gorm.io/gorm"
)

// AuthMiddleware validates the bearer token and loads the account so
// disabled users are rejected even with a valid token.
func AuthMiddleware(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.RespondError(c, http.StatusUnauthorized,
				utils.AuthError(utils.CodeAuthInvalid, "authorization header missing"))
			c.Abort()
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			utils.RespondError(c, http.StatusUnauthorized,
				utils.AuthError(utils.CodeAuthInvalid, "invalid token format"))
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		claims, err := utils.ParseToken(tokenString)
		if err != nil || claims == nil || claims.UserID == 0 {
			utils.RespondError(c, http.StatusUnauthorized,
				utils.AuthError(utils.CodeAuthInvalid, "invalid or expired token"))
			c.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Role").First(&user, claims.UserID).Error; err != nil {
			utils.RespondError(c, http.StatusUnauthorized,
				utils.AuthError(utils.CodeAuthInvalid, "account no longer exists"))
			c.Abort()
			return
		}
		if !user.IsActive {
			utils.RespondError(c, http.StatusForbidden,
				utils.AuthError(utils.CodeAuthInactive, "account is disabled"))
			c.Abort()
			return
		}

		c.Set("user_id", user.ID)
		c.Set("role", user.Role.Role)
		c.Next()
	}
}
