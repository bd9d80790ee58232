package xcontext

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
)

type dbTx struct {
	tx     *gorm.DB
	nested bool
}

// DB returns the running transaction if ctx carries one, otherwise the database stored by
// WithDB.
func DB(ctx context.Context) *gorm.DB {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTx); ok {
		return t.tx.WithContext(ctx)
	}

	db, ok := ctx.Value(dbKey{}).(*gorm.DB)
	if !ok {
		panic("xcontext: no database in context")
	}

	return db.WithContext(ctx)
}

// WithDBTransaction begins a transaction and returns a context whose DB() is bound to it.
// Calling it on a context which already carries a transaction joins that transaction; the
// commit and rollback of the joined context are then left to the outermost owner.
func WithDBTransaction(ctx context.Context) (context.Context, error) {
	if t, ok := ctx.Value(dbTxKey{}).(*dbTx); ok {
		return context.WithValue(ctx, dbTxKey{}, &dbTx{tx: t.tx, nested: true}), nil
	}

	tx := DB(ctx).Begin()
	if tx.Error != nil {
		return ctx, tx.Error
	}

	return context.WithValue(ctx, dbTxKey{}, &dbTx{tx: tx}), nil
}

// CommitDBTransaction commits the transaction owned by ctx.
func CommitDBTransaction(ctx context.Context) error {
	t, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || t.nested {
		return nil
	}

	return t.tx.Commit().Error
}

// RollbackDBTransaction rolls back the transaction owned by ctx. It is safe to defer right
// after WithDBTransaction because rolling back a committed transaction is a no-op.
func RollbackDBTransaction(ctx context.Context) {
	t, ok := ctx.Value(dbTxKey{}).(*dbTx)
	if !ok || t.nested {
		return
	}

	if err := t.tx.Rollback().Error; err != nil && !errors.Is(err, sql.ErrTxDone) {
		Logger(ctx).Errorf("Cannot rollback transaction: %v", err)
	}
}
