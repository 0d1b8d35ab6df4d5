package mw

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"hall-management-backend/internal/hall"
)

// Context keys set by BasicAuth.
const (
	UserKey = "hall.user"
	RoleKey = "hall.role"
)

// Authenticator resolves login credentials to a user.
type Authenticator interface {
	Authenticate(username, password string) (hall.User, error)
}

// BasicAuth checks HTTP basic credentials and stores the caller's username
// and role in the request context.
func BasicAuth(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		username, password, ok := c.Request.BasicAuth()
		if !ok {
			c.Header("WWW-Authenticate", `Basic realm="hall"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		user, err := auth.Authenticate(username, password)
		if err != nil {
			c.Header("WWW-Authenticate", `Basic realm="hall"`)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
			return
		}
		c.Set(UserKey, user.Username)
		c.Set(RoleKey, string(user.Role))
		c.Next()
	}
}

// RequireRole rejects callers whose role differs from role.
func RequireRole(role hall.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(RoleKey) != string(role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}
