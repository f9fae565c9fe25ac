package database

import (
	"database/sql"
	"fmt"

	"github.com/themizzi/swaglabs-e2e/internal/config"
)

const createOrdersTable = `
CREATE TABLE IF NOT EXISTS orders (
	id VARCHAR(36) PRIMARY KEY,
	reference VARCHAR(255) UNIQUE NOT NULL,
	username VARCHAR(255) NOT NULL,
	customer TEXT NOT NULL,
	items TEXT NOT NULL,
	subtotal INTEGER NOT NULL,
	tax INTEGER NOT NULL,
	amount INTEGER NOT NULL,
	currency VARCHAR(3) NOT NULL,
	status VARCHAR(50) NOT NULL,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
	updated_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

const createOrderIndexes = `
CREATE INDEX IF NOT EXISTS idx_orders_username ON orders(username);
CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status)`

// RunMigrations creates the necessary database tables. The schema is plain
// SQL shared by the sqlite and postgres drivers.
func RunMigrations(db *sql.DB, driver string) error {
	if db == nil {
		return fmt.Errorf("database connection not initialized")
	}
	if driver != config.DriverSQLite && driver != config.DriverPostgres {
		return fmt.Errorf("unsupported driver %q", driver)
	}

	if _, err := db.Exec(createOrdersTable); err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}
	if _, err := db.Exec(createOrderIndexes); err != nil {
		return fmt.Errorf("failed to create order indexes: %w", err)
	}

	return nil
}
