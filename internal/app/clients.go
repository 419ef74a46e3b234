package app

import (
	"context"
	"fmt"

	"github.com/yungbote/echonova-backend/internal/clients/redis"
	"github.com/yungbote/echonova-backend/internal/data/db"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

type Clients struct {
	DB    *db.Conn
	Cache redis.Cache
}

func wireClients(ctx context.Context, log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	// Postgres / SQLite; opened on first use.
	conn := db.NewLazyConn(cfg.DBDriver, cfg.DBDSN, log)

	// Redis is optional; without it the catalog is rebuilt on every new session.
	var cache redis.Cache
	if cfg.RedisAddr != "" {
		c, err := redis.NewCache(ctx, redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
			Prefix:   "echonova:",
		}, log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis cache: %w", err)
		}
		cache = c
	}

	return Clients{DB: conn, Cache: cache}, nil
}

func (c *Clients) Close() {
	if c == nil {
		return
	}
	if c.Cache != nil {
		_ = c.Cache.Close()
	}
	if c.DB != nil {
		_ = c.DB.Close()
	}
}
