package dbctx

import (
	"context"

	"gorm.io/gorm"
)

// TxRunner provides a shared transaction boundary for multi-record writes.
type TxRunner interface {
	InTx(ctx context.Context, fn func(dbc Context) error) error
}

type gormTxRunner struct {
	src Source
}

func NewGormTxRunner(src Source) TxRunner {
	return &gormTxRunner{src: src}
}

func (r *gormTxRunner) InTx(ctx context.Context, fn func(dbc Context) error) error {
	if fn == nil {
		return nil
	}
	db, err := r.src.DB(ctx)
	if err != nil {
		return err
	}
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(Context{Ctx: ctx, Tx: tx})
	})
}
