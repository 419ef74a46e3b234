package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// Context bundles a request context with an optional GORM transaction.
type Context struct {
	Ctx context.Context
	Tx  *gorm.DB
}

func New(ctx context.Context) Context { return Context{Ctx: ctx} }

func (c Context) Context() context.Context {
	if c.Ctx == nil {
		return context.Background()
	}
	return c.Ctx
}

// Source hands out the base connection when no transaction is attached.
type Source interface {
	DB(ctx context.Context) (*gorm.DB, error)
}

// Handle returns the attached transaction, or the base connection from src,
// bound to the request context.
func (c Context) Handle(src Source) (*gorm.DB, error) {
	ctx := c.Context()
	if c.Tx != nil {
		return c.Tx.WithContext(ctx), nil
	}
	db, err := src.DB(ctx)
	if err != nil {
		return nil, err
	}
	return db.WithContext(ctx), nil
}
