package db

import (
	"context"

	"gorm.io/gorm"
)

// txKey はコンテキストにトランザクションを保存するための非公開キーです。
type txKey struct{}

// Transactor は1つの論理操作を1トランザクションで実行します。
type Transactor struct {
	db *gorm.DB
}

// NewTransactor はTransactorの新しいインスタンスを生成します。
func NewTransactor(db *gorm.DB) *Transactor {
	return &Transactor{db: db}
}

// WithinTransaction はfnをトランザクション内で実行します。
// fnがエラーを返すとロールバックされ、途中までの書き込みは残りません。
// ctxが既にトランザクションを保持している場合はそれに参加します。
func (t *Transactor) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if _, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return fn(ctx)
	}
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// Conn はctxにトランザクションがあればそれを、なければbaseを返します。
// リポジトリはすべてのクエリでこの関数を経由します。
func Conn(ctx context.Context, base *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx.WithContext(ctx)
	}
	return base.WithContext(ctx)
}
