package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foyerhq/foyer/backend/internal/api/middleware"
	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/services"
)

type AuthHandler struct {
	auth *services.AuthService
	cfg  config.Config
}

func NewAuthHandler(auth *services.AuthService, cfg config.Config) *AuthHandler {
	return &AuthHandler{auth: auth, cfg: cfg}
}

// setSessionCookie sets the session cookie with security best practices:
// HttpOnly keeps it out of reach of page scripts, Secure restricts it to
// HTTPS in production, SameSite=Strict blocks cross-site sends.
func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.SessionCookie, value, maxAge, "/", "", h.cfg.IsProduction(), true)
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Login verifies admin credentials and establishes a session.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	token, user, err := h.auth.Login(req.Username, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
		return
	}

	h.setSessionCookie(c, token, int(h.cfg.SessionTTL.Seconds()))

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}

// Logout clears the session cookie.
func (h *AuthHandler) Logout(c *gin.Context) {
	h.setSessionCookie(c, "", -1)
	c.JSON(http.StatusOK, gin.H{"message": "Logged out"})
}

// Session reports whether the caller holds a valid admin session. It is a
// public probe, never a 401, so the frontend can branch without error
// handling.
func (h *AuthHandler) Session(c *gin.Context) {
	token := middleware.SessionToken(c)
	if token == "" {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	claims, err := h.auth.ValidateToken(token)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	user, err := h.auth.GetAdmin(claims.UserID)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"authenticated": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"authenticated": true, "user": user})
}
