// seed inserts development sample data for local testing.
// Idempotent: skips inserts if the dev client (Acme Ltd) already exists.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"os"
	"time"

	"timetrack/internal/config"
	"timetrack/internal/db"
)

const (
	devClientID   = "dev-client-001"
	devProjectID  = "dev-project-001"
	devProject2ID = "dev-project-002"
	devRoleID     = "dev-role-consultant"
	devRole2ID    = "dev-role-analyst"
	devUserID     = "dev-user-001"
	devUser2ID    = "dev-user-002"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()

	var existing string
	err = conn.QueryRowContext(ctx, `SELECT id FROM clients WHERE id = $1`, devClientID).Scan(&existing)
	if err == nil {
		log.Println("Seed already applied (dev client exists). Skipping.")
		os.Exit(0)
	}
	if !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("seed check: %v", err)
	}

	now := time.Now().UTC()

	exec := func(what, query string, args ...any) {
		if _, err := conn.ExecContext(ctx, query, args...); err != nil {
			log.Fatalf("%s: %v", what, err)
		}
	}

	exec("create client",
		`INSERT INTO clients (id, name, created_at) VALUES ($1, $2, $3)`,
		devClientID, "Acme Ltd", now)

	exec("create project",
		`INSERT INTO projects (id, client_id, name, currency, created_at) VALUES ($1, $2, $3, $4, $5)`,
		devProjectID, devClientID, "Acme Website", "USD", now)
	exec("create project",
		`INSERT INTO projects (id, client_id, name, currency, created_at) VALUES ($1, $2, $3, $4, $5)`,
		devProject2ID, devClientID, "Acme Data Platform", "EUR", now)

	exec("create role",
		`INSERT INTO roles (id, name) VALUES ($1, $2)`, devRoleID, "Consultant")
	exec("create role",
		`INSERT INTO roles (id, name) VALUES ($1, $2)`, devRole2ID, "Analyst")

	exec("create profile",
		`INSERT INTO profiles (id, full_name, role_id, created_at) VALUES ($1, $2, $3, $4)`,
		devUserID, "Dev User", devRoleID, now)
	exec("create profile",
		`INSERT INTO profiles (id, full_name, role_id, created_at) VALUES ($1, $2, $3, $4)`,
		devUser2ID, "Second User", devRole2ID, now)

	exec("create rate",
		`INSERT INTO project_rates (project_id, role_id, rate) VALUES ($1, $2, $3)`,
		devProjectID, devRoleID, 50.0)
	exec("create rate",
		`INSERT INTO project_rates (project_id, role_id, rate) VALUES ($1, $2, $3)`,
		devProjectID, devRole2ID, 35.0)
	exec("create rate",
		`INSERT INTO project_rates (project_id, role_id, rate) VALUES ($1, $2, $3)`,
		devProject2ID, devRoleID, 60.0)

	log.Println("Seed applied.")
}
