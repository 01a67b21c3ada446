package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/suar-net/hookmirror/internal/config"
)

func ConnectDB(cfg config.DBConfig) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %v", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to verified database connection: %v", err)
	}

	return db, nil
}

// EnsureSchema creates the two collections and their indexes if they do not
// exist yet: a uniqueness constraint on users.username (primary key) and
// secondary indexes on webhook_requests.username and .request_time.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS users (
			username          TEXT PRIMARY KEY,
			created_at        TIMESTAMPTZ NOT NULL DEFAULT now(),
			default_response  JSONB NOT NULL DEFAULT '{}'::jsonb,
			response_time_min INT NOT NULL DEFAULT 0,
			response_time_max INT NOT NULL DEFAULT 1000
		)`,
		`CREATE TABLE IF NOT EXISTS webhook_requests (
			id            UUID PRIMARY KEY,
			username      TEXT NOT NULL,
			method        TEXT NOT NULL,
			path          TEXT NOT NULL,
			headers       JSONB NOT NULL DEFAULT '{}'::jsonb,
			query_params  JSONB NOT NULL DEFAULT '{}'::jsonb,
			body          JSONB,
			response      JSONB,
			request_time  TIMESTAMPTZ NOT NULL,
			response_time INT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_requests_username ON webhook_requests (username)`,
		`CREATE INDEX IF NOT EXISTS idx_webhook_requests_request_time ON webhook_requests (request_time)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
