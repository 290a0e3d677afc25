package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foyerhq/foyer/backend/internal/api/middleware"
	"github.com/foyerhq/foyer/backend/internal/services"
	"github.com/foyerhq/foyer/backend/internal/store"
)

type VisitorHandler struct {
	visitors *services.VisitorService
	mail     *services.MailService
	notify   *services.NotificationService
}

func NewVisitorHandler(visitors *services.VisitorService, mail *services.MailService, notify *services.NotificationService) *VisitorHandler {
	return &VisitorHandler{visitors: visitors, mail: mail, notify: notify}
}

type SignInRequest struct {
	Name        string  `json:"name" binding:"required"`
	Company     *string `json:"company"`
	HostName    string  `json:"hostName" binding:"required"`
	VisitReason string  `json:"visitReason" binding:"required"`
	PhotoData   *string `json:"photoData"`
}

// SignIn handles the kiosk sign-in form. Host notification happens in the
// background so a broken SMTP setup never blocks the kiosk.
func (h *VisitorHandler) SignIn(c *gin.Context) {
	var req SignInRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitor, err := h.visitors.SignIn(services.SignInRequest{
		Name:        req.Name,
		Company:     req.Company,
		HostName:    req.HostName,
		VisitReason: req.VisitReason,
		PhotoData:   req.PhotoData,
	})
	if err != nil {
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to sign in visitor")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign in visitor"})
		return
	}

	go h.notifyHost(visitor.ID)

	c.JSON(http.StatusOK, visitor)
}

// notifyHost emails the host and fires webhook providers. Failures are
// logged, never surfaced to the kiosk.
func (h *VisitorHandler) notifyHost(visitorID string) {
	visitor, err := h.visitors.Get(visitorID)
	if err != nil {
		return
	}

	if h.notify != nil {
		h.notify.SendVisitorEvent(
			services.EventSignIn,
			fmt.Sprintf("Visitor Arrival: %s", visitor.Name),
			fmt.Sprintf("%s is here to see %s", visitor.Name, visitor.HostName),
		)
	}

	if h.mail == nil || !h.mail.IsConfigured() {
		return
	}
	if err := h.mail.SendVisitorArrival(visitor); err != nil {
		return
	}
	_ = h.visitors.MarkEmailSent(visitor.ID)
}

type SignOutRequest struct {
	Name string `json:"name" binding:"required"`
}

// SignOut handles the kiosk sign-out form, matching by name among active
// visitors.
func (h *VisitorHandler) SignOut(c *gin.Context) {
	var req SignOutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitor, err := h.visitors.SignOutByName(req.Name, time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "No active visitor found with that name"})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to sign out visitor")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out visitor"})
		return
	}

	if h.notify != nil {
		go h.notify.SendVisitorEvent(
			services.EventSignOut,
			fmt.Sprintf("Visitor Departed: %s", visitor.Name),
			fmt.Sprintf("%s has signed out", visitor.Name),
		)
	}

	c.JSON(http.StatusOK, visitor)
}

// AdminSignOut signs a visitor out by id from the dashboard.
func (h *VisitorHandler) AdminSignOut(c *gin.Context) {
	visitor, err := h.visitors.SignOut(c.Param("id"), time.Now())
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
			return
		}
		middleware.GetRequestLogger(c).WithError(err).Error("Failed to sign out visitor")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign out visitor"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}

// Current returns the active visitors shown on the kiosk sign-out screen.
func (h *VisitorHandler) Current(c *gin.Context) {
	visitors, err := h.visitors.Current()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list current visitors"})
		return
	}
	c.JSON(http.StatusOK, visitors)
}

// List returns every visitor with photo data stripped. The dashboard table
// never needs the base64 payloads and they dominate response size.
func (h *VisitorHandler) List(c *gin.Context) {
	visitors, err := h.visitors.AllRedacted()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list visitors"})
		return
	}
	c.JSON(http.StatusOK, visitors)
}

// Get returns a single visitor record including photo data.
func (h *VisitorHandler) Get(c *gin.Context) {
	visitor, err := h.visitors.Get(c.Param("id"))
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch visitor"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}

type UpdateVisitorRequest struct {
	Name        *string `json:"name"`
	Company     *string `json:"company"`
	HostName    *string `json:"hostName"`
	VisitReason *string `json:"visitReason"`
	PhotoData   *string `json:"photoData"`
}

// Update applies a partial edit to a visitor record.
func (h *VisitorHandler) Update(c *gin.Context) {
	var req UpdateVisitorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	visitor, err := h.visitors.Update(c.Param("id"), services.VisitorUpdate{
		Name:        req.Name,
		Company:     req.Company,
		HostName:    req.HostName,
		VisitReason: req.VisitReason,
		PhotoData:   req.PhotoData,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visitor"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}
