package repository

import (
	"context"
	"time"
)

// TokenRepositoryInterface defines the contract for per-session token storage.
// Values are opaque strings such as "Bearer <access_token>".
type TokenRepositoryInterface interface {
	Get(ctx context.Context, sessionID, key string) (string, bool, error)
	Put(ctx context.Context, sessionID, key, value string) error
	Delete(ctx context.Context, sessionID, key string) error
	// Prune removes every value last stored before the cutoff and returns how many went
	Prune(ctx context.Context, before time.Time) (int64, error)
}
