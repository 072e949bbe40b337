package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestSweepTokensDropsIdleSessions(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	repo := NewMemoryTokenRepository()
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, repo.Put(ctx, "s1", "vestri_oAuthToken", "Bearer old"))

	done := make(chan struct{})
	go func() {
		defer close(done)
		SweepTokens(ctx, repo, time.Millisecond, 5*time.Millisecond, zap.NewNop())
	}()

	assert.Eventually(t, func() bool {
		_, ok, _ := repo.Get(context.Background(), "s1", "vestri_oAuthToken")
		return !ok
	}, time.Second, 5*time.Millisecond)

	cancel()
	<-done
}
