package config

import "fmt"

// Store drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// StoreConfig selects where storefront orders are persisted
type StoreConfig struct {
	Driver     string
	SQLitePath string
	Postgres   *PostgresConfig
}

// LoadStoreConfig loads the order store configuration from environment variables
func LoadStoreConfig(getenv func(string) string) (*StoreConfig, error) {
	cfg := &StoreConfig{
		Driver:     getenv("STORE_DRIVER"),
		SQLitePath: getenv("SQLITE_PATH"),
	}
	if cfg.Driver == "" {
		cfg.Driver = DriverSQLite
	}

	switch cfg.Driver {
	case DriverSQLite:
		if cfg.SQLitePath == "" {
			cfg.SQLitePath = "file:swaglabs?mode=memory&cache=shared"
		}
	case DriverPostgres:
		pg, err := LoadPostgresConfig(getenv)
		if err != nil {
			return nil, err
		}
		cfg.Postgres = pg
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be %s or %s, got %q", DriverSQLite, DriverPostgres, cfg.Driver)
	}

	return cfg, nil
}

// DSN returns the driver specific data source name
func (c *StoreConfig) DSN() string {
	if c.Driver == DriverPostgres {
		return c.Postgres.ConnectionString()
	}
	return c.SQLitePath
}
