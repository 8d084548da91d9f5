package repository

import (
	"context"
	"database/sql"
)

// Executor はSQL実行を抽象化するインターフェース。
// *sql.DB と *sql.Tx のどちらも受け付けることができる。
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}
