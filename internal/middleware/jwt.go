package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/sdc-club/backend/internal/auth"
	"github.com/sdc-club/backend/pkg/response"
)

const (
	// ContextSubject is the key for the token subject in gin context.
	ContextSubject = "subject"
	// ContextUserRole is the key for the token role in gin context.
	ContextUserRole = "user_role"
)

// JWT returns a middleware that validates a Bearer token and sets its claims in context.
func JWT(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}
		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			response.Unauthorized(c, "invalid authorization header")
			c.Abort()
			return
		}
		claims, err := jwtService.Validate(parts[1])
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}
		c.Set(ContextSubject, claims.Subject)
		c.Set(ContextUserRole, claims.Role)
		c.Next()
	}
}

// AdminOnly guards review-committee routes. When disabled it lets every request through,
// leaving the public API unauthenticated.
func AdminOnly(jwtService *auth.JWTService, enabled bool) []gin.HandlerFunc {
	if !enabled {
		return nil
	}
	return []gin.HandlerFunc{JWT(jwtService), RequireRole(auth.RoleAdmin)}
}
