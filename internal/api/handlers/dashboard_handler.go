package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/foyerhq/foyer/backend/internal/api/middleware"
	"github.com/foyerhq/foyer/backend/internal/services"
)

type DashboardHandler struct {
	visitors *services.VisitorService
}

func NewDashboardHandler(visitors *services.VisitorService) *DashboardHandler {
	return &DashboardHandler{visitors: visitors}
}

// Stats returns the dashboard aggregates for the current day.
func (h *DashboardHandler) Stats(c *gin.Context) {
	stats, err := h.visitors.TodayStats(time.Now())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to compute stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AuditLogs returns the audit trail, newest first.
func (h *DashboardHandler) AuditLogs(c *gin.Context) {
	logs, err := h.visitors.AuditTrail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch audit logs"})
		return
	}
	c.JSON(http.StatusOK, logs)
}

// Export produces a JSON download of visitor records and the audit trail.
// Photo data is stripped so exports stay a reasonable size.
func (h *DashboardHandler) Export(c *gin.Context) {
	visitors, err := h.visitors.AllRedacted()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}
	logs, err := h.visitors.AuditTrail()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to export data"})
		return
	}

	exportedBy := ""
	if username, ok := c.Get(middleware.AdminUsernameKey); ok {
		exportedBy, _ = username.(string)
	}

	filename := fmt.Sprintf("visitor-data-%s.json", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.JSON(http.StatusOK, gin.H{
		"visitors":   visitors,
		"auditLogs":  logs,
		"exportedAt": time.Now().UTC(),
		"exportedBy": exportedBy,
	})
}
