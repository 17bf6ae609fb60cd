// File: cmd/seed/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"vendor-booking-platform/internal/config"
	pg "vendor-booking-platform/internal/infra/db/postgres"
)

// Seeds a demo tenant with two packages and their add-ons so the checkout
// flow can be exercised end to end against a fresh database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	// If tenants already exist, do nothing.
	var count int
	if err := pool.QueryRow(ctx, `SELECT COUNT(*) FROM tenants`).Scan(&count); err != nil {
		log.Fatalf("count tenants: %v", err)
	}
	if count > 0 {
		fmt.Printf("%d tenants already present. No changes.\n", count)
		return
	}

	tenantID := uuid.NewString()
	if _, err := pool.Exec(ctx, `
		INSERT INTO tenants (id, name, slug, commission_percent, currency, active)
		VALUES ($1, 'Siam Studio', 'siam-studio', 12.0, 'THB', TRUE)`, tenantID); err != nil {
		log.Fatalf("seed tenant: %v", err)
	}
	fmt.Printf("seeded tenant: Siam Studio (id=%s, commission=12.0%%)\n", tenantID)

	packages := []struct {
		Title  string
		Slug   string
		Price  int64
		AddOns []struct {
			Title string
			Price int64
		}
	}{
		{"Full Day Wedding", "full-day-wedding", 150_000, []struct {
			Title string
			Price int64
		}{
			{"Drone Footage", 10_000},
			{"Same-Day Edit", 25_000},
			{"Printed Album", 8_000},
		}},
		{"Half Day Event", "half-day-event", 90_000, []struct {
			Title string
			Price int64
		}{
			{"Drone Footage", 10_000},
			{"Extra Photographer", 15_000},
		}},
	}

	for _, p := range packages {
		packageID := uuid.NewString()
		if _, err := pool.Exec(ctx, `
			INSERT INTO packages (id, tenant_id, title, slug, base_price, currency, active)
			VALUES ($1, $2, $3, $4, $5, 'THB', TRUE)`, packageID, tenantID, p.Title, p.Slug, p.Price); err != nil {
			log.Fatalf("seed package %q: %v", p.Title, err)
		}
		for _, a := range p.AddOns {
			if _, err := pool.Exec(ctx, `
				INSERT INTO add_ons (id, package_id, title, price)
				VALUES ($1, $2, $3, $4)`, uuid.NewString(), packageID, a.Title, a.Price); err != nil {
				log.Fatalf("seed add-on %q: %v", a.Title, err)
			}
		}
		fmt.Printf("seeded: %s (id=%s, base=%d THB, %d add-ons)\n", p.Title, packageID, p.Price, len(p.AddOns))
	}

	fmt.Println("Seeding complete.")
}
