package database

import (
	"context"
	"fmt"
	"sync"
	"time"

	"gorm.io/gorm"

	"github.com/kbukum/authsvc/logger"
)

// DB wraps a GORM database with service logging.
type DB struct {
	GormDB *gorm.DB
	log    *logger.Logger
	cfg    Config
	closed bool
	mu     sync.Mutex
}

// Open connects using the dialector for cfg.Driver.
func Open(ctx context.Context, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	dialector, err := Dialector(cfg)
	if err != nil {
		return nil, err
	}
	return NewWithContext(ctx, dialector, cfg, log)
}

// NewWithContext connects through dialector, retrying up to
// cfg.ConnectAttempts times until ctx is done.
func NewWithContext(ctx context.Context, dialector gorm.Dialector, cfg Config, log *logger.Logger) (*DB, error) {
	cfg.ApplyDefaults()

	gormCfg := &gorm.Config{
		Logger:         newGormLogger(log, cfg.duration(cfg.SlowQuery), parseLogLevel(cfg.LogLevel)),
		TranslateError: true,
	}

	var err error
	for attempt := 1; ; attempt++ {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("database connection canceled: %w", ctx.Err())
		}

		var db *gorm.DB
		if db, err = connect(ctx, dialector, gormCfg); err == nil {
			configurePool(db, cfg)
			log.Info("Database connection established", map[string]interface{}{
				"driver":  cfg.Driver,
				"attempt": attempt,
			})
			return &DB{GormDB: db, log: log, cfg: cfg}, nil
		}
		if attempt >= cfg.ConnectAttempts || !IsConnectionError(err) {
			break
		}

		backoff := time.Duration(attempt) * time.Second
		log.Warn("Database connection attempt failed, retrying", map[string]interface{}{
			"attempt": attempt,
			"error":   err.Error(),
			"backoff": backoff.String(),
		})
		if waitErr := contextSleep(ctx, backoff); waitErr != nil {
			return nil, fmt.Errorf("database connection canceled during retry: %w", waitErr)
		}
	}
	return nil, fmt.Errorf("database connection failed: %w", err)
}

func connect(ctx context.Context, dialector gorm.Dialector, gormCfg *gorm.Config) (*gorm.DB, error) {
	db, err := gorm.Open(dialector, gormCfg)
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return db, nil
}

func configurePool(db *gorm.DB, cfg Config) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	if cfg.Driver == DriverSQLite {
		// Every sqlite connection to ":memory:" is a separate database.
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
		return
	}
	sqlDB.SetMaxOpenConns(cfg.Pool.MaxOpen)
	sqlDB.SetMaxIdleConns(cfg.Pool.MaxIdle)
	sqlDB.SetConnMaxLifetime(cfg.duration(cfg.Pool.MaxLifetime))
	sqlDB.SetConnMaxIdleTime(cfg.duration(cfg.Pool.MaxIdleTime))
}

// contextSleep waits for the given duration or until ctx is canceled.
func contextSleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Driver returns the configured driver name.
func (d *DB) Driver() string { return d.cfg.Driver }

// Close closes the underlying sql.DB connection pool. Safe to call multiple times.
func (d *DB) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil
	}

	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	d.log.Info("Closing database connection")
	d.closed = true
	return sqlDB.Close()
}

// PingContext verifies the database connection is alive.
func (d *DB) PingContext(ctx context.Context) error {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// WithContext returns a GORM session scoped to the given context.
func (d *DB) WithContext(ctx context.Context) *gorm.DB {
	return d.GormDB.WithContext(ctx)
}

// Stats summarizes the connection pool.
type Stats struct {
	OpenConns  int `json:"open_connections"`
	InUseConns int `json:"in_use_connections"`
	IdleConns  int `json:"idle_connections"`
}

// Stats returns the current pool statistics.
func (d *DB) Stats() Stats {
	sqlDB, err := d.GormDB.DB()
	if err != nil {
		return Stats{}
	}
	s := sqlDB.Stats()
	return Stats{OpenConns: s.OpenConnections, InUseConns: s.InUse, IdleConns: s.Idle}
}
