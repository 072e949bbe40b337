package db

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"storefront/config"
)

// tokensSchema is valid for both PostgreSQL and SQLite
const tokensSchema = `
	CREATE TABLE IF NOT EXISTS storefront_tokens (
		session_id  TEXT NOT NULL,
		storage_key TEXT NOT NULL,
		value       TEXT NOT NULL,
		updated_at  TIMESTAMP NOT NULL,
		PRIMARY KEY (session_id, storage_key)
	)
`

// InitDB opens the token database for driver and dsn, checks the
// connection and creates the schema
func InitDB(ctx context.Context, driver, dsn string, logger *zap.Logger) (*sql.DB, error) {
	if dsn == "" {
		return nil, fmt.Errorf("database url not set")
	}

	switch driver {
	case config.DriverPostgres:
	case config.DriverSQLite:
		if err := ensureSQLiteDir(dsn); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}

	conn, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if driver == config.DriverSQLite {
		// SQLite allows a single writer; serialize through one connection
		conn.SetMaxOpenConns(1)
	}

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := EnsureSchema(ctx, conn); err != nil {
		conn.Close()
		return nil, err
	}

	logger.Info("✓ Database connection established successfully", zap.String("driver", driver))
	return conn, nil
}

// EnsureSchema creates the tables the storefront needs
func EnsureSchema(ctx context.Context, conn *sql.DB) error {
	if _, err := conn.ExecContext(ctx, tokensSchema); err != nil {
		return fmt.Errorf("failed to create storefront_tokens: %w", err)
	}
	return nil
}

// ensureSQLiteDir creates the parent directory of a file-backed SQLite dsn
func ensureSQLiteDir(dsn string) error {
	path := strings.TrimPrefix(dsn, "file:")
	if i := strings.IndexByte(path, '?'); i >= 0 {
		path = path[:i]
	}
	if path == "" || path == ":memory:" {
		return nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create database directory %s: %w", dir, err)
	}
	return nil
}
