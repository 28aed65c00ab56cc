// Package database はDB接続の初期化とスキーマ作成を行います。
package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/go-sql-driver/mysql"
	_ "github.com/mattn/go-sqlite3"

	"go-todo-list/backend/internal/config"
)

// GetDSN は設定からドライバーに応じた接続文字列 (DSN) を構築します。
func GetDSN(cfg *config.Config) string {
	if cfg.DBDriver == config.DriverSQLite {
		return SQLiteDSN(cfg.SQLitePath)
	}
	mc := mysql.NewConfig()
	mc.User = cfg.DBUser
	mc.Passwd = cfg.DBPass
	mc.Net = "tcp"
	mc.Addr = cfg.DBHost + ":" + cfg.DBPort
	mc.DBName = cfg.DBName
	mc.ParseTime = true
	// UPDATE で値が変わらない行も affected rows に数える
	mc.ClientFoundRows = true
	return mc.FormatDSN()
}

// SQLiteDSN は外部キー制約を有効にした SQLite の DSN を返します。
func SQLiteDSN(path string) string {
	return path + "?_foreign_keys=on"
}

// InitDB はデータベース接続を開き、接続プールを設定し、スキーマを作成します。
func InitDB(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*sql.DB, error) {
	if cfg.DBDriver == config.DriverSQLite && cfg.SQLitePath != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(cfg.SQLitePath), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open(cfg.DBDriver, GetDSN(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := Migrate(ctx, db, cfg.DBDriver); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to database", "driver", cfg.DBDriver)
	return db, nil
}
