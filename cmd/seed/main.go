package main

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/oksasatya/bug-tracker-api/config"
	"github.com/oksasatya/bug-tracker-api/pkg/helpers"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@bugtracker.local"
	password := "password123"
	name := "Admin"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var adminID string
	err = db.QueryRow(`
		INSERT INTO users (name, email, password_hash, role)
		VALUES ($1, $2, $3, 'admin')
		ON CONFLICT (lower(email)) DO UPDATE SET name = EXCLUDED.name
		RETURNING id
	`, name, email, hash).Scan(&adminID)
	if err != nil {
		log.Fatalf("failed to seed admin: %v", err)
	}
	fmt.Printf("seeded admin: id=%s email=%s password=%s\n", adminID, email, password)

	demo := []struct {
		title, description, status, priority string
	}{
		{"Crash on save", "Editor crashes when saving an untitled document", "open", "high"},
		{"Slow dashboard load", "Dashboard takes >5s with 1k bugs", "in-progress", "medium"},
		{"Typo in login page", "Button reads 'Sing in'", "resolved", "low"},
	}
	for _, b := range demo {
		// insert-if-absent keyed on title so reruns don't duplicate the demo set
		res, err := db.Exec(`
			INSERT INTO bugs (title, description, status, priority, created_by)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM bugs WHERE title = $1)
		`, b.title, b.description, b.status, b.priority, adminID)
		if err != nil {
			log.Fatalf("failed to seed bug %q: %v", b.title, err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			fmt.Printf("bug already seeded: title=%q\n", b.title)
			continue
		}
		fmt.Printf("seeded bug: title=%q\n", b.title)
	}
}
