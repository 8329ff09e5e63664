// Command seed bootstraps a fresh deployment: it creates the first admin
// account from ADMIN_EMAIL / ADMIN_PASSWORD and a starter set of locations
// and treatments. It is a no-op when providers already exist.
package main

import (
	"context"
	"fmt"
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/toughlovemassage/portal/internal/auth"
	"github.com/toughlovemassage/portal/internal/clinic"
	appconfig "github.com/toughlovemassage/portal/internal/config"
	"github.com/toughlovemassage/portal/internal/providers"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("connect to postgres: %v", err)
	}
	defer pool.Close()

	providersRepo := providers.NewRepository(pool)
	clinicRepo := clinic.NewRepository(pool)

	count, err := providersRepo.Count(ctx)
	if err != nil {
		log.Fatalf("count providers: %v", err)
	}
	if count > 0 {
		fmt.Println("providers already exist, nothing to seed")
		return
	}

	if cfg.AdminEmail == "" || cfg.AdminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required on first run")
	}
	hash, err := auth.HashPassword(cfg.AdminPassword)
	if err != nil {
		log.Fatalf("hash admin password: %v", err)
	}
	admin, err := providersRepo.Create(ctx, &providers.Provider{
		Username:          cfg.AdminEmail,
		PasswordHash:      hash,
		FullName:          "Administrator",
		Email:             cfg.AdminEmail,
		IsAdmin:           true,
		Active:            true,
		BufferTimeMinutes: cfg.DefaultBufferMinutes,
	})
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	fmt.Printf("created admin %s (%s)\n", admin.Username, admin.ID)

	location, err := clinicRepo.CreateLocation(ctx, &clinic.Location{
		Name:    "Tough Love Massage - Main Street",
		Address: "214 Main Street",
		Phone:   "555-0142",
		Hours:   "Mon-Sat 9am-7pm",
		Active:  true,
	})
	if err != nil {
		log.Fatalf("create location: %v", err)
	}
	fmt.Printf("created location %s\n", location.Name)

	treatments := []*clinic.Treatment{
		{Name: "Deep Tissue Massage", Description: "Focused pressure work on chronic tension.", DurationMinutes: 60, PriceCents: 9500, Active: true},
		{Name: "Swedish Massage", Description: "Full-body relaxation massage.", DurationMinutes: 60, PriceCents: 8500, Active: true},
		{Name: "Sports Recovery", Description: "Stretch-assisted recovery session.", DurationMinutes: 90, PriceCents: 13500, Active: true},
		{Name: "Prenatal Massage", Description: "Side-lying massage for expecting clients.", DurationMinutes: 60, PriceCents: 9000, Active: true},
	}
	for _, tr := range treatments {
		created, err := clinicRepo.CreateTreatment(ctx, tr)
		if err != nil {
			log.Fatalf("create treatment %q: %v", tr.Name, err)
		}
		fmt.Printf("created treatment %s\n", created.Name)
	}
}
