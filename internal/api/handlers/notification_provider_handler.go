package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/services"
)

type NotificationProviderHandler struct {
	service *services.NotificationService
}

func NewNotificationProviderHandler(service *services.NotificationService) *NotificationProviderHandler {
	return &NotificationProviderHandler{service: service}
}

func (h *NotificationProviderHandler) List(c *gin.Context) {
	providers, err := h.service.ListProviders()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list notification providers"})
		return
	}
	c.JSON(http.StatusOK, providers)
}

type ProviderRequest struct {
	Name           string `json:"name" binding:"required"`
	Type           string `json:"type" binding:"required"`
	URL            string `json:"url" binding:"required"`
	Enabled        bool   `json:"enabled"`
	NotifySignIns  bool   `json:"notifySignIns"`
	NotifySignOuts bool   `json:"notifySignOuts"`
}

func (h *NotificationProviderHandler) Create(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name:           req.Name,
		Type:           req.Type,
		URL:            req.URL,
		Enabled:        req.Enabled,
		NotifySignIns:  req.NotifySignIns,
		NotifySignOuts: req.NotifySignOuts,
	}
	if err := h.service.CreateProvider(&provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create notification provider"})
		return
	}
	c.JSON(http.StatusCreated, provider)
}

func (h *NotificationProviderHandler) Update(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		ID:             c.Param("id"),
		Name:           req.Name,
		Type:           req.Type,
		URL:            req.URL,
		Enabled:        req.Enabled,
		NotifySignIns:  req.NotifySignIns,
		NotifySignOuts: req.NotifySignOuts,
	}
	if err := h.service.UpdateProvider(&provider); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update notification provider"})
		return
	}
	c.JSON(http.StatusOK, provider)
}

func (h *NotificationProviderHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteProvider(c.Param("id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete notification provider"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Notification provider deleted"})
}

// Test fires a test notification at the submitted provider config without
// persisting it.
func (h *NotificationProviderHandler) Test(c *gin.Context) {
	var req ProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	provider := models.NotificationProvider{
		Name: req.Name,
		Type: req.Type,
		URL:  req.URL,
	}
	if err := h.service.TestProvider(provider); err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Test notification sent"})
}
