package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type AdminMiddleware struct {
	isAdmin func(username string) bool
}

func NewAdminMiddleware(isAdmin func(username string) bool) *AdminMiddleware {
	return &AdminMiddleware{
		isAdmin: isAdmin,
	}
}

// RequireAdmin must run after RequireAuth.
func (m *AdminMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		username := GetUsername(c)
		if username == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		if !m.isAdmin(username) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			return
		}

		c.Next()
	}
}
