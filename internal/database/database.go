package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/themizzi/swaglabs-e2e/internal/config"
	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open establishes a connection to the configured order store and verifies it
func Open(cfg *config.StoreConfig) (*sql.DB, error) {
	db, err := sql.Open(cfg.Driver, cfg.DSN())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	switch cfg.Driver {
	case config.DriverSQLite:
		// A shared in-memory database lives as long as one connection holds it open.
		db.SetMaxOpenConns(1)
		db.SetConnMaxLifetime(0)
	default:
		db.SetMaxOpenConns(25)
		db.SetMaxIdleConns(10)
		db.SetConnMaxLifetime(5 * time.Minute)
	}

	// Verify connection
	if err = db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return db, nil
}
