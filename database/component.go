package database

import (
	"context"
	"fmt"
	"io/fs"

	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/database/migration"
	"github.com/kbukum/authsvc/logger"
)

type migrationSource struct {
	fsys fs.FS
	path string
}

// Component wraps DB and implements component.Component for lifecycle management.
type Component struct {
	db         *DB
	cfg        Config
	log        *logger.Logger
	migrations []migrationSource
}

// NewComponent creates a database component for use with the component registry.
func NewComponent(cfg Config, log *logger.Logger) *Component {
	cfg.ApplyDefaults()
	return &Component{
		cfg: cfg,
		log: log.WithComponent("database"),
	}
}

// WithMigrations registers a versioned migration directory applied on Start
// when Config.Migrate is set.
func (c *Component) WithMigrations(fsys fs.FS, path string) *Component {
	c.migrations = append(c.migrations, migrationSource{fsys: fsys, path: path})
	return c
}

// DB returns the underlying *DB, or nil if not started.
func (c *Component) DB() *DB {
	return c.db
}

var _ component.Component = (*Component)(nil)

// Name returns the component name.
func (c *Component) Name() string { return "database" }

// Start connects to the database and applies pending migrations.
func (c *Component) Start(ctx context.Context) error {
	db, err := Open(ctx, c.cfg, c.log)
	if err != nil {
		return fmt.Errorf("database start: %w", err)
	}
	c.db = db

	if !c.cfg.Migrate {
		return nil
	}
	driverFunc, err := MigrationDriver(c.cfg.Driver)
	if err != nil {
		return err
	}
	for _, m := range c.migrations {
		if err := migration.MigrateUp(db.GormDB, m.fsys, m.path, driverFunc); err != nil {
			return fmt.Errorf("database migrate: %w", err)
		}
		version, _, _ := migration.MigrateVersion(db.GormDB, m.fsys, m.path, driverFunc)
		c.log.Info("Migrations applied", logger.Fields("path", m.path, "version", version))
	}
	return nil
}

// Stop gracefully closes the database connection.
func (c *Component) Stop(_ context.Context) error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

// Health pings the connection pool.
func (c *Component) Health(ctx context.Context) component.Health {
	if c.db == nil {
		return component.Unhealthy(c.Name(), "database not initialized")
	}
	if err := c.db.PingContext(ctx); err != nil {
		return component.Unhealthy(c.Name(), fmt.Sprintf("ping failed: %v", err))
	}
	return component.Healthy(c.Name())
}

// Describe returns infrastructure summary info for the startup log.
func (c *Component) Describe() component.Description {
	details := fmt.Sprintf("driver=%s pool=%d/%d", c.cfg.Driver, c.cfg.Pool.MaxOpen, c.cfg.Pool.MaxIdle)
	if c.cfg.Migrate {
		details += " migrate=on"
	}
	return component.Description{
		Name:    "Database",
		Type:    "database",
		Details: details,
	}
}
