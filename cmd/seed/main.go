package main

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/go-marketplace-api/config"
	"github.com/oksasatya/go-marketplace-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "demo@marketplace.local"
	password := "password123"
	username := "demoSeller"

	salt, err := helpers.NewToken(16)
	if err != nil {
		log.Fatalf("failed to generate salt: %v", err)
	}
	token, err := helpers.NewToken(48)
	if err != nil {
		log.Fatalf("failed to generate token: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (id, email, username, phone, salt, hash, token)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (email) DO UPDATE SET username = EXCLUDED.username
		RETURNING id
	`, uuid.NewString(), email, username, "+33600000000", salt, helpers.HashPassword(salt, password), token).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed user: %v", err)
	}
	fmt.Printf("seeded user: id=%s email=%s password=%s\n", id, email, password)

	offers := []struct {
		name, desc, brand, size, cond, color, loc string
		price                                     float64
	}{
		{"Blue denim jacket", "Barely worn, great condition", "Levi's", "M", "Used - good", "blue", "Paris", 45},
		{"Running shoes", "Road running shoes, 200km on them", "Asics", "42", "Used - fair", "white", "Lyon", 30},
		{"Wool scarf", "Hand-knitted, very warm", "", "One size", "New", "grey", "Lille", 15},
	}
	for _, o := range offers {
		if _, err := db.Exec(`
			INSERT INTO offers (id, product_name, product_description, product_price,
			                    brand, size, condition, color, location, owner_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, uuid.NewString(), o.name, o.desc, o.price, o.brand, o.size, o.cond, o.color, o.loc, id); err != nil {
			log.Fatalf("failed to seed offer %q: %v", o.name, err)
		}
	}
	fmt.Printf("seeded %d offers for user %s\n", len(offers), id)
}
