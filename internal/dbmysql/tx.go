package dbmysql

import (
	"context"

	"gorm.io/gorm"

	"socialapp/internal/common"
)

type txKey struct{}

// txState is the open transaction plus the work deferred until it commits.
type txState struct {
	tx          *gorm.DB
	afterCommit []func(ctx context.Context)
}

type gormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) common.Transactor {
	return &gormTransactor{db: db}
}

func (t *gormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*txState); ok {
		return fn(ctx)
	}

	state := &txState{}
	err := t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		state.tx = tx
		return fn(context.WithValue(ctx, txKey{}, state))
	})
	if err != nil {
		return err
	}
	for _, hook := range state.afterCommit {
		hook(ctx)
	}
	return nil
}

// Conn returns the transaction carried by ctx, or db bound to ctx.
// Repositories must go through it so their queries join an open transaction.
func Conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		return state.tx
	}
	return db.WithContext(ctx)
}

// AfterCommit runs fn once the transaction carried by ctx commits, and drops
// it on rollback. Without a transaction fn runs immediately.
// fn receives a context outside the transaction.
func AfterCommit(ctx context.Context, fn func(ctx context.Context)) {
	if state, ok := ctx.Value(txKey{}).(*txState); ok {
		state.afterCommit = append(state.afterCommit, fn)
		return
	}
	fn(ctx)
}
