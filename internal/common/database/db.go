package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/rs/zerolog"
	"github.com/uma-arai/lightbnb/internal/common/config"
)

const (
	driverName  = "postgres"
	pingTimeout = 10 * time.Second
)

// DB はプロセス全体で共有するコネクションプールです
// Openで取得し、終了時にCloseで解放します
type DB struct {
	*sqlx.DB
	log zerolog.Logger
}

// Open はコネクションプールを作成し、疎通確認を行います
func Open(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*DB, error) {
	var (
		sqlDB *sql.DB
		err   error
	)

	// X-Ray対応のSQLコンテキストを作成
	if cfg.Tracing.Enabled {
		sqlDB, err = xray.SQLContext(driverName, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database with X-Ray: %w", err)
		}
	} else {
		sqlDB, err = sql.Open(driverName, cfg.DSN())
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
	}

	db := New(sqlx.NewDb(sqlDB, driverName), log)
	db.Configure(cfg.DB)

	// 接続テスト
	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info().
		Str("host", cfg.DB.Host).
		Int("port", cfg.DB.Port).
		Str("database", cfg.DB.Name).
		Bool("tracing", cfg.Tracing.Enabled).
		Msg("DB connected successfully")

	return db, nil
}

// New wraps an existing handle. Tests pass a sqlmock-backed *sqlx.DB here.
func New(conn *sqlx.DB, log zerolog.Logger) *DB {
	return &DB{DB: conn, log: log}
}

// Configure applies the pool limits from cfg.
func (db *DB) Configure(cfg config.DBConfig) {
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Second)
}

// Close releases every pooled connection.
func (db *DB) Close() error {
	if db == nil || db.DB == nil {
		return nil
	}
	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}
	db.log.Info().Msg("DB connection closed")
	return nil
}
