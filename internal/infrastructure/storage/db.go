package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/roundtable/backend/internal/infrastructure/config"
	_ "modernc.org/sqlite"
)

// OpenDB 打开 SQLite 数据库连接（WAL 模式）
func OpenDB(dbPath string) (*sql.DB, error) {
	// 确保目录存在
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite 单连接写入，避免 database is locked
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}
	return db, nil
}

// ProvideDB 按存储配置打开数据库，返回清理函数
func ProvideDB(cfg *config.StorageConfig) (*sql.DB, func(), error) {
	db, err := OpenDB(cfg.DBPath())
	if err != nil {
		return nil, nil, err
	}
	return db, func() { db.Close() }, nil
}
