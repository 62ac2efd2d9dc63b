package database

import (
	"database/sql"
	"fmt"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	migratepgx "github.com/golang-migrate/migrate/v4/database/pgx/v5"
	migratesqlite "github.com/golang-migrate/migrate/v4/database/sqlite3"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/kbukum/authsvc/database/migration"
)

// Dialector returns the GORM dialector for the configured driver.
func Dialector(cfg Config) (gorm.Dialector, error) {
	switch cfg.Driver {
	case DriverSQLite:
		return sqlite.Open(cfg.DSN), nil
	case DriverPostgres:
		return postgres.Open(cfg.DSN), nil
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Driver)
	}
}

// MigrationDriver returns the golang-migrate driver for the configured driver.
func MigrationDriver(driver string) (migration.DriverFunc, error) {
	switch driver {
	case DriverSQLite:
		return func(db *sql.DB) (migratedb.Driver, error) {
			return migratesqlite.WithInstance(db, &migratesqlite.Config{})
		}, nil
	case DriverPostgres:
		return func(db *sql.DB) (migratedb.Driver, error) {
			return migratepgx.WithInstance(db, &migratepgx.Config{})
		}, nil
	default:
		return nil, fmt.Errorf("no migration driver for %q", driver)
	}
}
