package database

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"strings"
	"time"

	"fixed-assets-registry/internal/config"

	_ "github.com/lib/pq"
)

// PingTimeout bounds the startup connectivity check.
const PingTimeout = 10 * time.Second

//go:embed schema.sql
var schema string

// InitDB initializes the database connection with proper configuration.
// The caller owns the returned handle and must close it on shutdown.
func InitDB(cfg *config.Config) (*sql.DB, error) {
	db, err := sql.Open("postgres", cfg.GetDatabaseDSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	// Configure connection pool settings
	db.SetMaxOpenConns(cfg.Database.MaxOpenConns)
	db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.Database.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.Database.ConnMaxIdleTime)

	ctx, cancel := context.WithTimeout(context.Background(), PingTimeout)
	defer cancel()

	// Test the connection
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	return db, nil
}

// Schema returns the bootstrap DDL: tables, constraints and seeded vocabularies.
func Schema() string {
	return schema
}

// ApplySchema creates any missing tables and seeds the vocabularies. Every
// statement is idempotent, so it is safe to run on each start.
func ApplySchema(ctx context.Context, db *sql.DB) error {
	ddl := strings.TrimSpace(schema)
	if ddl == "" {
		return fmt.Errorf("embedded schema is empty")
	}

	if _, err := db.ExecContext(ctx, ddl); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}
