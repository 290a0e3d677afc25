package handlers

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/models"
)

func settingsRouter(db *gorm.DB) *gin.Engine {
	h := NewSettingsHandler(db)
	r := gin.New()
	r.GET("/admin/settings", h.GetSettings)
	r.POST("/admin/settings", h.UpdateSetting)
	return r
}

func TestSettings_UpsertAndGet(t *testing.T) {
	r := settingsRouter(setupTestDB(t))

	w := postJSON(r, "/admin/settings", gin.H{
		"key": "smtp_host", "value": "smtp.example.com", "category": "smtp",
	})
	require.Equal(t, http.StatusOK, w.Code)

	// updating the same key overwrites, no duplicate row
	w = postJSON(r, "/admin/settings", gin.H{
		"key": "smtp_host", "value": "mail.example.com", "category": "smtp",
	})
	require.Equal(t, http.StatusOK, w.Code)

	w = getJSON(r, "/admin/settings")
	require.Equal(t, http.StatusOK, w.Code)

	var settings map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "mail.example.com", settings["smtp_host"])
	assert.Len(t, settings, 1)
}

func TestSettings_MissingKey(t *testing.T) {
	r := settingsRouter(setupTestDB(t))
	w := postJSON(r, "/admin/settings", gin.H{"value": "orphan"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSettings_RedactsPassword(t *testing.T) {
	db := setupTestDB(t)
	require.NoError(t, db.Create(&models.Setting{
		Key: "smtp_password", Value: "hunter2", Category: "smtp",
	}).Error)

	r := settingsRouter(db)
	w := getJSON(r, "/admin/settings")
	require.Equal(t, http.StatusOK, w.Code)

	var settings map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &settings))
	assert.Equal(t, "********", settings["smtp_password"])
	assert.NotContains(t, w.Body.String(), "hunter2")
}
