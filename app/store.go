package app

import (
	"fmt"

	"github.com/kbukum/authsvc/account"
	"github.com/kbukum/authsvc/account/redisstore"
	"github.com/kbukum/authsvc/account/sqlstore"
	"github.com/kbukum/authsvc/component"
	"github.com/kbukum/authsvc/database"
	"github.com/kbukum/authsvc/logger"
	"github.com/kbukum/authsvc/redis"
)

// storeBackend pairs the infrastructure component behind an account store
// with a constructor that runs once the component has started.
type storeBackend struct {
	component component.Component // nil for the in-memory store
	open      func() account.Store
}

func newStoreBackend(cfg StoreConfig, log *logger.Logger) (storeBackend, error) {
	switch cfg.Driver {
	case StoreMemory:
		return storeBackend{open: func() account.Store { return account.NewMemoryStore() }}, nil
	case StoreSQLite, StorePostgres:
		db := database.NewComponent(cfg.Database, log).
			WithMigrations(sqlstore.Migrations, sqlstore.MigrationsPath)
		return storeBackend{
			component: db,
			open:      func() account.Store { return sqlstore.New(db.DB()) },
		}, nil
	case StoreRedis:
		rc := redis.NewComponent(cfg.Redis, log)
		return storeBackend{
			component: rc,
			open:      func() account.Store { return redisstore.New(rc.Client()) },
		}, nil
	}
	return storeBackend{}, fmt.Errorf("unsupported store driver %q", cfg.Driver)
}
