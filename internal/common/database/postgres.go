// internal/common/database/postgres.go
package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"roadmap-workers/internal/common/config"

	_ "github.com/lib/pq"
)

// applicationName tags catalog sessions in pg_stat_activity.
const applicationName = "roadmap-workers"

// PostgresClient holds the pool the postgres catalog source reads through.
// Sessions are read-only; the catalog is maintained elsewhere.
type PostgresClient struct {
	DB *sql.DB
}

// NewPostgres opens a small read-only pool. The catalog is re-read at most
// once per cache TTL, so idle connections are released quickly.
func NewPostgres(cfg config.PostgresConfig) (*PostgresClient, error) {
	db, err := sql.Open("postgres", catalogDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres: %w", err)
	}

	maxOpen := cfg.MaxConnections
	if maxOpen <= 0 {
		maxOpen = 4
	}
	db.SetMaxOpenConns(maxOpen)
	db.SetMaxIdleConns(min(cfg.MaxIdle, maxOpen))
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(2 * time.Minute)

	return &PostgresClient{DB: db}, nil
}

func catalogDSN(cfg config.PostgresConfig) string {
	return cfg.GetDSN() +
		" application_name=" + applicationName +
		" default_transaction_read_only=on"
}

// Ping checks the connection and that the session really is read-only.
func (c *PostgresClient) Ping(ctx context.Context) error {
	if err := c.DB.PingContext(ctx); err != nil {
		return fmt.Errorf("postgres ping failed: %w", err)
	}
	var readOnly string
	if err := c.DB.QueryRowContext(ctx, "SHOW transaction_read_only").Scan(&readOnly); err != nil {
		return fmt.Errorf("postgres session check failed: %w", err)
	}
	if readOnly != "on" {
		return fmt.Errorf("postgres session is not read-only")
	}
	return nil
}

func (c *PostgresClient) Close() error {
	if c.DB != nil {
		return c.DB.Close()
	}
	return nil
}
