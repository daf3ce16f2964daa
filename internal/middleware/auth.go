package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/h4ks-com/cashbook/internal/auth"
	"github.com/h4ks-com/cashbook/internal/services"
)

type AuthMiddleware struct {
	tokenService *services.TokenService
}

func NewAuthMiddleware(tokenService *services.TokenService) *AuthMiddleware {
	return &AuthMiddleware{
		tokenService: tokenService,
	}
}

// RequireAuth authenticates API requests with a bearer token.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authorization header required"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			return
		}

		claims, err := m.tokenService.ValidateToken(parts[1])
		if err != nil {
			if !errors.Is(err, services.ErrInvalidToken) && !errors.Is(err, services.ErrExpiredToken) {
				c.Error(err)
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		auth.SetPrincipal(c, auth.Principal{UserID: claims.UserID, Username: claims.Username})
		c.Next()
	}
}

// RequireSession guards HTML pages. Anonymous visitors are sent to /login.
func RequireSession() gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := auth.SessionPrincipal(c)
		if !ok {
			c.Redirect(http.StatusFound, "/login")
			c.Abort()
			return
		}

		auth.SetPrincipal(c, principal)
		c.Next()
	}
}

func GetUsername(c *gin.Context) string {
	principal, ok := auth.CurrentPrincipal(c)
	if !ok {
		return ""
	}
	return principal.Username
}
