package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"storefront/config"
)

// Dialect rewrites "?" placeholders for a database driver
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

// DialectForDriver returns the dialect of a database/sql driver name
func DialectForDriver(driver string) Dialect {
	if driver == config.DriverPostgres {
		return DialectPostgres
	}
	return DialectSQLite
}

// Rebind turns "?" placeholders into "$1, $2, ..." for PostgreSQL
func (d Dialect) Rebind(query string) string {
	if d != DialectPostgres {
		return query
	}

	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// TokenRepository stores session tokens in storefront_tokens
type TokenRepository struct {
	db      *sql.DB
	dialect Dialect
	logger  *zap.Logger
}

// NewTokenRepository creates a new TokenRepository
func NewTokenRepository(db *sql.DB, dialect Dialect, logger *zap.Logger) *TokenRepository {
	return &TokenRepository{db: db, dialect: dialect, logger: logger}
}

// Ensure TokenRepository implements TokenRepositoryInterface
var _ TokenRepositoryInterface = (*TokenRepository)(nil)

// Get returns the value stored for sessionID and key
func (r *TokenRepository) Get(ctx context.Context, sessionID, key string) (string, bool, error) {
	query := r.dialect.Rebind(`
		SELECT value
		FROM storefront_tokens
		WHERE session_id = ? AND storage_key = ?
	`)

	var value string
	err := r.db.QueryRowContext(ctx, query, sessionID, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		r.logger.Error("❌ Get: Error fetching token", zap.String("key", key), zap.Error(err))
		return "", false, fmt.Errorf("failed to fetch token: %w", err)
	}

	return value, true, nil
}

// Put stores value for sessionID and key, replacing any previous value
func (r *TokenRepository) Put(ctx context.Context, sessionID, key, value string) error {
	query := r.dialect.Rebind(`
		INSERT INTO storefront_tokens (session_id, storage_key, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (session_id, storage_key)
		DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`)

	if _, err := r.db.ExecContext(ctx, query, sessionID, key, value, time.Now().UTC()); err != nil {
		r.logger.Error("❌ Put: Error storing token", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to store token: %w", err)
	}

	r.logger.Debug("✅ Put: Token stored", zap.String("key", key))
	return nil
}

// Delete removes the value for sessionID and key. Deleting a missing value is not an error.
func (r *TokenRepository) Delete(ctx context.Context, sessionID, key string) error {
	query := r.dialect.Rebind(`
		DELETE FROM storefront_tokens
		WHERE session_id = ? AND storage_key = ?
	`)

	if _, err := r.db.ExecContext(ctx, query, sessionID, key); err != nil {
		r.logger.Error("❌ Delete: Error deleting token", zap.String("key", key), zap.Error(err))
		return fmt.Errorf("failed to delete token: %w", err)
	}

	return nil
}

// Prune deletes the tokens last stored before the cutoff
func (r *TokenRepository) Prune(ctx context.Context, before time.Time) (int64, error) {
	query := r.dialect.Rebind(`
		DELETE FROM storefront_tokens
		WHERE updated_at < ?
	`)

	res, err := r.db.ExecContext(ctx, query, before.UTC())
	if err != nil {
		r.logger.Error("❌ Prune: Error deleting stale tokens", zap.Error(err))
		return 0, fmt.Errorf("failed to prune tokens: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned tokens: %w", err)
	}
	if n > 0 {
		r.logger.Info("🧹 Prune: Stale tokens removed", zap.Int64("count", n))
	}
	return n, nil
}
