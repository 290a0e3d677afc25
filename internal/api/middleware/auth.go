package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/foyerhq/foyer/backend/internal/services"
)

// SessionCookie is the name of the admin session cookie set on login.
const SessionCookie = "foyer_session"

// Context keys populated by AdminAuth.
const (
	AdminIDKey       = "adminID"
	AdminUsernameKey = "adminUsername"
)

// SessionToken extracts the session token from the cookie or, failing that,
// a bearer Authorization header. Empty string when neither is present.
func SessionToken(c *gin.Context) string {
	if cookie, err := c.Cookie(SessionCookie); err == nil && cookie != "" {
		return cookie
	}
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimPrefix(authHeader, "Bearer ")
	}
	return ""
}

// AdminAuth is the access gate for admin-only routes. It resolves the session
// token to a stored admin and aborts with 401 before any handler mutation can
// run. The kiosk-facing routes never use it.
func AdminAuth(authService *services.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := SessionToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin authentication required"})
			return
		}

		claims, err := authService.ValidateToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin authentication required"})
			return
		}

		admin, err := authService.GetAdmin(claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Admin authentication required"})
			return
		}

		c.Set(AdminIDKey, admin.ID)
		c.Set(AdminUsernameKey, admin.Username)
		c.Next()
	}
}
