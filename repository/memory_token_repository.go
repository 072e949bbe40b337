package repository

import (
	"context"
	"sync"
	"time"
)

type tokenKey struct {
	sessionID string
	key       string
}

type tokenEntry struct {
	value     string
	updatedAt time.Time
}

// MemoryTokenRepository keeps session tokens in process memory.
// Tokens are lost on restart, which only forces a new public login.
type MemoryTokenRepository struct {
	mu     sync.RWMutex
	values map[tokenKey]tokenEntry
}

// NewMemoryTokenRepository creates an empty MemoryTokenRepository
func NewMemoryTokenRepository() *MemoryTokenRepository {
	return &MemoryTokenRepository{values: make(map[tokenKey]tokenEntry)}
}

var _ TokenRepositoryInterface = (*MemoryTokenRepository)(nil)

func (r *MemoryTokenRepository) Get(_ context.Context, sessionID, key string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.values[tokenKey{sessionID, key}]
	return e.value, ok, nil
}

func (r *MemoryTokenRepository) Put(_ context.Context, sessionID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.values[tokenKey{sessionID, key}] = tokenEntry{value: value, updatedAt: time.Now().UTC()}
	return nil
}

func (r *MemoryTokenRepository) Delete(_ context.Context, sessionID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values, tokenKey{sessionID, key})
	return nil
}

func (r *MemoryTokenRepository) Prune(_ context.Context, before time.Time) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for k, e := range r.values {
		if e.updatedAt.Before(before) {
			delete(r.values, k)
			n++
		}
	}
	return n, nil
}
