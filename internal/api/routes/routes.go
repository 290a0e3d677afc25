package routes

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"github.com/foyerhq/foyer/backend/internal/api/handlers"
	"github.com/foyerhq/foyer/backend/internal/api/middleware"
	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/metrics"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/services"
	"github.com/foyerhq/foyer/backend/internal/store"
)

// Register wires up API routes, runs migrations, seeds the default admin
// and starts the end-of-day close-out job.
func Register(router *gin.Engine, db *gorm.DB, cfg config.Config) error {
	// Settings and notification providers always live in sqlite, even when
	// the visitor store runs in memory.
	if err := db.AutoMigrate(&models.Setting{}, &models.NotificationProvider{}); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	st, err := buildStore(db, cfg)
	if err != nil {
		return fmt.Errorf("build store: %w", err)
	}

	visitorService := services.NewVisitorService(st)
	authService := services.NewAuthService(st, cfg)
	mailService := services.NewMailService(db)
	notificationService := services.NewNotificationService(db)

	if err := authService.SeedDefaultAdmin(); err != nil {
		return fmt.Errorf("seed default admin: %w", err)
	}

	closeout := services.NewCloseoutService(visitorService, cfg.CloseoutCron)
	if err := closeout.Start(); err != nil {
		return fmt.Errorf("start close-out job: %w", err)
	}

	registry := prometheus.NewRegistry()
	metrics.Register(registry)
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	router.GET("/api/v1/health", handlers.HealthHandler)

	visitorHandler := handlers.NewVisitorHandler(visitorService, mailService, notificationService)
	authHandler := handlers.NewAuthHandler(authService, cfg)
	dashboardHandler := handlers.NewDashboardHandler(visitorService)
	settingsHandler := handlers.NewSettingsHandler(db)
	providerHandler := handlers.NewNotificationProviderHandler(notificationService)

	api := router.Group("/api/v1")

	// Kiosk routes, no authentication
	api.POST("/visitors/signin", visitorHandler.SignIn)
	api.POST("/visitors/signout", visitorHandler.SignOut)
	api.GET("/visitors/current", visitorHandler.Current)

	// Session probe and login stay public so the dashboard can bootstrap
	api.POST("/admin/login", authHandler.Login)
	api.GET("/admin/session", authHandler.Session)

	admin := api.Group("/admin")
	admin.Use(middleware.AdminAuth(authService))
	{
		admin.POST("/logout", authHandler.Logout)

		admin.GET("/visitors", visitorHandler.List)
		admin.GET("/visitors/:id", visitorHandler.Get)
		admin.PUT("/visitors/:id", visitorHandler.Update)
		admin.POST("/visitors/:id/signout", visitorHandler.AdminSignOut)

		admin.GET("/stats", dashboardHandler.Stats)
		admin.GET("/audit-logs", dashboardHandler.AuditLogs)
		admin.GET("/export", dashboardHandler.Export)

		admin.GET("/settings", settingsHandler.GetSettings)
		admin.POST("/settings", settingsHandler.UpdateSetting)

		admin.GET("/notification-providers", providerHandler.List)
		admin.POST("/notification-providers", providerHandler.Create)
		admin.PUT("/notification-providers/:id", providerHandler.Update)
		admin.DELETE("/notification-providers/:id", providerHandler.Delete)
		admin.POST("/notification-providers/test", providerHandler.Test)
	}

	logger.WithFields(map[string]interface{}{
		"store": cfg.StoreBackend,
	}).Info("Routes registered")

	return nil
}

func buildStore(db *gorm.DB, cfg config.Config) (store.Store, error) {
	if cfg.StoreBackend == "memory" {
		return store.NewMemory(), nil
	}
	return store.NewGorm(db)
}
