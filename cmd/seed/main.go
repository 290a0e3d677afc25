package main

import (
	"fmt"
	"log"
	"time"

	"github.com/foyerhq/foyer/backend/internal/config"
	"github.com/foyerhq/foyer/backend/internal/database"
	"github.com/foyerhq/foyer/backend/internal/models"
	"github.com/foyerhq/foyer/backend/internal/services"
	"github.com/foyerhq/foyer/backend/internal/store"
)

func strptr(s string) *string { return &s }

// Seeds the database with a default admin and a handful of demo visitors so
// the dashboard has something to show on first boot.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	st, err := store.NewGorm(db)
	if err != nil {
		log.Fatal("Failed to migrate database:", err)
	}
	if err := db.AutoMigrate(&models.Setting{}, &models.NotificationProvider{}); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("✓ Database migrated successfully")

	auth := services.NewAuthService(st, cfg)
	if err := auth.SeedDefaultAdmin(); err != nil {
		log.Fatal("Failed to seed admin:", err)
	}
	fmt.Printf("✓ Default admin ready (%s)\n", cfg.AdminUsername)

	visitors := services.NewVisitorService(st)
	now := time.Now()

	demo := []struct {
		req       services.SignInRequest
		signedOut bool
	}{
		{
			req: services.SignInRequest{
				Name:        "John Smith",
				Company:     strptr("Acme Corp"),
				HostName:    "Sarah Johnson",
				VisitReason: models.VisitReasonMeeting,
			},
		},
		{
			req: services.SignInRequest{
				Name:        "Emily Chen",
				Company:     strptr("Design Studio"),
				HostName:    "Mike Wilson",
				VisitReason: models.VisitReasonInterview,
			},
		},
		{
			req: services.SignInRequest{
				Name:        "Robert Brown",
				HostName:    "Lisa Davis",
				VisitReason: models.VisitReasonMaintenance,
			},
			signedOut: true,
		},
	}

	for _, d := range demo {
		v, err := visitors.SignIn(d.req)
		if err != nil {
			log.Fatal("Failed to seed visitor:", err)
		}
		if d.signedOut {
			if _, err := visitors.SignOut(v.ID, now); err != nil {
				log.Fatal("Failed to sign out seeded visitor:", err)
			}
		}
		fmt.Printf("✓ Seeded visitor %s\n", v.Name)
	}

	fmt.Println("✓ Seeding complete")
}
