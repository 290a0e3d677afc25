package handlers

import (
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/services"
	"github.com/foyerhq/foyer/backend/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Setting{}, &models.NotificationProvider{}))
	return db
}

func testConfig() config.Config {
	return config.Config{
		Environment:   "test",
		JWTSecret:     "test-secret",
		SessionTTL:    time.Hour,
		AdminUsername: "admin",
		AdminPassword: "admin123",
	}
}

func newVisitorService() *services.VisitorService {
	return services.NewVisitorService(store.NewMemory())
}

func seededAuthService(t *testing.T) *services.AuthService {
	t.Helper()
	svc := services.NewAuthService(store.NewMemory(), testConfig())
	require.NoError(t, svc.SeedDefaultAdmin())
	return svc
}
