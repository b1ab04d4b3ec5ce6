package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/carsphere/carsphere-api/config"
	"github.com/carsphere/carsphere-api/pkg/helpers"
)

// Seeds a demo account and a few catalog entries for local development.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@carsphere.dev"
	name := "demo_user"
	password := "password123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id int64
	err = db.QueryRow(`
		INSERT INTO users (email, username, password_hash)
		VALUES ($1, $2, $3)
		ON CONFLICT (email) DO UPDATE SET updated_at = now()
		RETURNING id
	`, email, name, hash).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%d email=%s password=%s\n", id, email, password)

	cars := []struct {
		brand string
		model string
		price float64
	}{
		{"Toyota", "Corolla", 9000},
		{"Honda", "Civic", 8500},
		{"Ford", "Fiesta", 7200},
	}
	for _, c := range cars {
		var carID int64
		err := db.QueryRow(`
			INSERT INTO cars (brand, model, price)
			VALUES ($1, $2, $3)
			ON CONFLICT (model) DO UPDATE SET price = EXCLUDED.price, updated_at = now()
			RETURNING id
		`, c.brand, c.model, c.price).Scan(&carID)
		if err != nil {
			log.Fatalf("failed to seed car %s: %v", c.model, err)
		}
		fmt.Printf("seeded car: id=%d %s %s %.2f\n", carID, c.brand, c.model, c.price)
	}
}
