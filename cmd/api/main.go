package main

import (
	"context"
	"io"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/database"
	"github.com/foyerhq/foyer/backend/internal/logger"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/server"
	"github.com/foyerhq/foyer/backend/internal/version"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// Log to stdout and a rotated file next to the database
	logDir := filepath.Join(filepath.Dir(cfg.DatabasePath), "logs")
	_ = os.MkdirAll(logDir, 0o755)
	rotator := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, "foyer.log"),
		MaxSize:    10, // megabytes
		MaxBackups: 3,
		MaxAge:     28, // days
		Compress:   true,
	}
	logger.Init(!cfg.IsProduction(), io.MultiWriter(os.Stdout, rotator))

	if len(os.Args) > 1 && os.Args[1] == "reset-password" {
		resetPassword(cfg)
		return
	}

	logger.WithFields(map[string]interface{}{
		"version": version.Full(),
		"store":   cfg.StoreBackend,
	}).Infof("starting %s backend", version.Name)

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	srv, err := server.New(db, cfg)
	if err != nil {
		log.Fatalf("build server: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Run(ctx); err != nil {
		log.Fatalf("server error: %v", err)
	}
}

// resetPassword rewrites an admin's password hash directly in the database.
// Recovery path for a locked-out dashboard.
func resetPassword(cfg config.Config) {
	if len(os.Args) != 4 {
		log.Fatalf("Usage: %s reset-password <username> <new-password>", os.Args[0])
	}
	username := os.Args[2]
	newPassword := os.Args[3]

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}

	var admin models.AdminUser
	if err := db.Where("username = ?", username).First(&admin).Error; err != nil {
		log.Fatalf("admin not found: %v", err)
	}

	if err := admin.SetPassword(newPassword); err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	if err := db.Save(&admin).Error; err != nil {
		log.Fatalf("failed to save admin: %v", err)
	}

	log.Printf("Password updated successfully for admin %s", username)
}
