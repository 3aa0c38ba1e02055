package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/models"
)

// CheckAdminPermissionMiddleware aborts requests whose identity lacks the
// ADMIN role.
func CheckAdminPermissionMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("Role")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"message": "authentication required",
			})
			c.Abort()
			return
		}
		if role != models.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{
				"message": "you do not have permission to access this resource",
			})
			c.Abort()
			return
		}
		c.Next()
	}
}
