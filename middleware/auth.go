package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/services"
	"github.com/ngminhphat/tip-b18-computer-ecommerce-be/token"
)

// AuthMiddleware resolves the bearer token into a user identity. A missing or
// invalid token leaves the request anonymous; gating happens downstream.
// Refresh-typed tokens never authenticate a resource request.
func AuthMiddleware(tokens *token.Service, users *services.UserService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		tok := strings.TrimPrefix(authHeader, "Bearer ")
		if tok == "" || tok == authHeader {
			c.Next()
			return
		}

		claims, err := tokens.ParseClaims(tok)
		if err != nil {
			c.Next()
			return
		}
		if claims.TokenType == token.TypeRefresh {
			c.Next()
			return
		}
		if valid, err := tokens.VerifyNotExpired(tok); err != nil || !valid {
			c.Next()
			return
		}

		user, err := users.FindByUsername(claims.UserName)
		if err != nil {
			c.Next()
			return
		}

		c.Set("Token", tok)
		c.Set("UserID", user.ID)
		c.Set("Username", user.Username)
		c.Set("Role", user.PrimaryRole())
		c.Next()
	}
}
