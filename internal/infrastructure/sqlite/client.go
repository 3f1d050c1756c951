// Package sqlite opens and migrates the embedded single-file storage backend.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/fastygo/todo/internal/config"
)

// DSN builds a go-sqlite3 data source with the pragmas every connection needs.
func DSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL&_synchronous=NORMAL", path)
}

// Open creates the database file if needed and returns a validated handle.
// SQLite allows a single writer, so the pool is pinned to one connection.
func Open(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*sql.DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	if err := ensureDir(cfg.SQLitePath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", DSN(cfg.SQLitePath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect sqlite: %w", err)
	}

	logger.Info("opened sqlite database", zap.String("path", cfg.SQLitePath))
	return db, nil
}

// Close releases the handle and logs the result.
func Close(db *sql.DB, logger *zap.Logger) {
	if db == nil {
		return
	}
	if err := db.Close(); err != nil && logger != nil {
		logger.Warn("sqlite close failed", zap.Error(err))
		return
	}
	if logger != nil {
		logger.Info("sqlite database closed")
	}
}

func ensureDir(path string) error {
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create sqlite directory: %w", err)
	}
	return nil
}
