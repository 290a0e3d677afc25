package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foyerhq/foyer/backend/internal/api/middleware"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/services"
)

func performRequest(r *gin.Engine, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func dashboardRouter(visitors *services.VisitorService) *gin.Engine {
	h := NewDashboardHandler(visitors)

	r := gin.New()
	r.GET("/admin/stats", h.Stats)
	r.GET("/admin/audit-logs", h.AuditLogs)
	r.GET("/admin/export", func(c *gin.Context) {
		// the auth gate normally populates this
		c.Set(middleware.AdminUsernameKey, "admin")
		h.Export(c)
	})
	return r
}

func TestStats_Empty(t *testing.T) {
	r := dashboardRouter(newVisitorService())

	w := getJSON(r, "/admin/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.CurrentVisitors)
	assert.Equal(t, 0, stats.TodaySignins)
	assert.Equal(t, "0.0h", stats.AvgDuration)
}

func TestStats_CountsActiveVisitors(t *testing.T) {
	visitors := newVisitorService()
	_, err := visitors.SignIn(services.SignInRequest{
		Name: "John Smith", HostName: "Sarah Johnson", VisitReason: models.VisitReasonMeeting,
	})
	require.NoError(t, err)

	r := dashboardRouter(visitors)
	w := getJSON(r, "/admin/stats")
	require.Equal(t, http.StatusOK, w.Code)

	var stats services.Stats
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &stats))
	assert.Equal(t, 1, stats.CurrentVisitors)
	assert.Equal(t, 1, stats.TodaySignins)
}

func TestAuditLogs(t *testing.T) {
	visitors := newVisitorService()
	v, err := visitors.SignIn(services.SignInRequest{
		Name: "John Smith", HostName: "Sarah Johnson", VisitReason: models.VisitReasonMeeting,
	})
	require.NoError(t, err)
	_, err = visitors.SignOut(v.ID, time.Now())
	require.NoError(t, err)

	r := dashboardRouter(visitors)
	w := getJSON(r, "/admin/audit-logs")
	require.Equal(t, http.StatusOK, w.Code)

	var logs []models.AuditLog
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &logs))
	require.Len(t, logs, 2)
	// newest first
	assert.Equal(t, models.ActionVisitorSignOut, logs[0].Action)
	assert.Equal(t, models.ActionVisitorSignIn, logs[1].Action)
}

func TestExport(t *testing.T) {
	visitors := newVisitorService()
	photo := "data:image/png;base64,AAAA"
	_, err := visitors.SignIn(services.SignInRequest{
		Name: "John Smith", HostName: "Sarah Johnson",
		VisitReason: models.VisitReasonMeeting, PhotoData: &photo,
	})
	require.NoError(t, err)

	r := dashboardRouter(visitors)
	w := getJSON(r, "/admin/export")
	require.Equal(t, http.StatusOK, w.Code)

	expected := fmt.Sprintf(`attachment; filename="visitor-data-%s.json"`, time.Now().Format("2006-01-02"))
	assert.Equal(t, expected, w.Header().Get("Content-Disposition"))

	var payload struct {
		Visitors   []models.Visitor  `json:"visitors"`
		AuditLogs  []models.AuditLog `json:"auditLogs"`
		ExportedAt time.Time         `json:"exportedAt"`
		ExportedBy string            `json:"exportedBy"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	require.Len(t, payload.Visitors, 1)
	assert.Nil(t, payload.Visitors[0].PhotoData)
	require.Len(t, payload.AuditLogs, 1)
	assert.Equal(t, "admin", payload.ExportedBy)
	assert.WithinDuration(t, time.Now(), payload.ExportedAt, 5*time.Second)
}
