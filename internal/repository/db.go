package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog"
)

// DB はリポジトリが利用するコネクションプールのラッパーです
// 各クエリをX-Rayのサブセグメントとして記録します
type DB struct {
	*sqlx.DB
	log zerolog.Logger
}

// NewDB wraps a pooled handle. The pool itself is owned by common/database.
func NewDB(conn *sqlx.DB, log zerolog.Logger) *DB {
	return &DB{DB: conn, log: log}
}

// beginSubsegment はセグメントが存在しない場合でも安全に使えるサブセグメントを開始します
func (db *DB) beginSubsegment(ctx context.Context, name string) (context.Context, func(error)) {
	ctx, seg := xray.BeginSubsegment(ctx, name)
	if seg == nil {
		return ctx, func(error) {}
	}
	return ctx, func(err error) { seg.Close(err) }
}

func (db *DB) addQueryMetadata(ctx context.Context, query string) {
	seg := xray.GetSegment(ctx)
	if seg == nil {
		return
	}
	// クエリをメタデータとして追加
	if err := seg.AddMetadata("query", query); err != nil {
		db.log.Warn().Err(err).Msg("Failed to add query metadata")
	}
}

// GetContext wraps sqlx.DB.GetContext with X-Ray tracing
func (db *DB) GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, done := db.beginSubsegment(ctx, "DB.Get")
	db.addQueryMetadata(ctx, query)

	err := db.DB.GetContext(ctx, dest, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		// 0件は失敗として記録しない
		done(nil)
		return err
	}
	done(err)
	return err
}

// SelectContext wraps sqlx.DB.SelectContext with X-Ray tracing
func (db *DB) SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error {
	ctx, done := db.beginSubsegment(ctx, "DB.Select")
	db.addQueryMetadata(ctx, query)

	err := db.DB.SelectContext(ctx, dest, query, args...)
	done(err)
	return err
}

// QueryxContext wraps sqlx.DB.QueryxContext with X-Ray tracing
func (db *DB) QueryxContext(ctx context.Context, query string, args ...interface{}) (*sqlx.Rows, error) {
	ctx, done := db.beginSubsegment(ctx, "DB.Queryx")
	db.addQueryMetadata(ctx, query)

	rows, err := db.DB.QueryxContext(ctx, query, args...)
	done(err)
	return rows, err
}
