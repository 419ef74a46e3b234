package db

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"

	"github.com/yungbote/echonova-backend/internal/platform/dbctx"
	"github.com/yungbote/echonova-backend/internal/platform/logger"
)

// Opener establishes a new connection. Swapped out in tests.
type Opener func(ctx context.Context) (*gorm.DB, error)

// Conn is the process-wide database handle. The first callers share a single
// open attempt; a failed attempt is not remembered, so the next call retries.
type Conn struct {
	open    Opener
	migrate func(*gorm.DB) error
	log     *logger.Logger

	group singleflight.Group
	mu    sync.RWMutex
	db    *gorm.DB
}

var _ dbctx.Source = (*Conn)(nil)

type ConnOption func(*Conn)

// WithMigrations runs fn once, right after the connection is established.
func WithMigrations(fn func(*gorm.DB) error) ConnOption {
	return func(c *Conn) { c.migrate = fn }
}

func NewConn(open Opener, log *logger.Logger, opts ...ConnOption) *Conn {
	c := &Conn{open: open, log: log.With("service", "DBConn")}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// NewLazyConn opens driver/dsn on first use and migrates the schema.
func NewLazyConn(driver, dsn string, log *logger.Logger) *Conn {
	return NewConn(func(ctx context.Context) (*gorm.DB, error) {
		return Open(driver, dsn)
	}, log, WithMigrations(AutoMigrateAll))
}

func (c *Conn) DB(ctx context.Context) (*gorm.DB, error) {
	if db := c.current(); db != nil {
		return db, nil
	}
	ch := c.group.DoChan("connect", func() (any, error) {
		if db := c.current(); db != nil {
			return db, nil
		}
		db, err := c.connect(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
		return db, nil
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*gorm.DB), nil
	}
}

func (c *Conn) connect(ctx context.Context) (*gorm.DB, error) {
	if c.open == nil {
		return nil, errors.New("db: no opener configured")
	}
	db, err := c.open(ctx)
	if err != nil {
		c.log.Error("database connection failed", "error", err)
		return nil, fmt.Errorf("open database: %w", err)
	}
	if c.migrate != nil {
		if err := c.migrate(db); err != nil {
			closeDB(db)
			c.log.Error("database migration failed", "error", err)
			return nil, fmt.Errorf("migrate database: %w", err)
		}
	}
	c.log.Info("database connection established")
	return db, nil
}

func (c *Conn) current() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

// Ping opens the connection if needed and checks it is alive.
func (c *Conn) Ping(ctx context.Context) error {
	db, err := c.DB(ctx)
	if err != nil {
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

func (c *Conn) Close() error {
	c.mu.Lock()
	db := c.db
	c.db = nil
	c.mu.Unlock()
	if db == nil {
		return nil
	}
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func closeDB(db *gorm.DB) {
	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

// Static wraps an already open handle, for tests and tooling.
type Static struct{ Handle *gorm.DB }

func (s Static) DB(context.Context) (*gorm.DB, error) {
	if s.Handle == nil {
		return nil, errors.New("db: nil handle")
	}
	return s.Handle, nil
}
