package service

import (
	"context"
	"errors"
	"sync"

	"go.uber.org/zap"

	"storefront/models"
)

// ErrItemUnmounted is returned by Load when the item was unmounted while fetching
var ErrItemUnmounted = errors.New("product list item unmounted")

// ProductListItem is one product of a grid. It starts loading and leaves
// that state only when a fetch succeeds; failures are logged, not retried.
type ProductListItem struct {
	productURL string
	sessionID  string
	service    *ProductService
	logger     *zap.Logger

	mu        sync.Mutex
	loading   bool
	view      models.ProductListItemView
	unmounted bool
	cancel    context.CancelFunc
	done      chan struct{}
}

// ProductURL returns the Cortex URI of the item
func (i *ProductListItem) ProductURL() string {
	return i.productURL
}

// Loading reports whether the item has no view yet
func (i *ProductListItem) Loading() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.loading
}

// View returns the loaded view, or false while loading
func (i *ProductListItem) View() (models.ProductListItemView, bool) {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.view, !i.loading
}

// Load fetches the product and stores its view. The result is discarded
// when ctx is cancelled or the item is unmounted before the fetch returns.
func (i *ProductListItem) Load(ctx context.Context) error {
	view, err := i.service.fetch(ctx, i.sessionID, i.productURL)

	if ctx.Err() != nil {
		i.logger.Debug("Product fetch discarded", zap.Error(ctx.Err()))
		return ctx.Err()
	}
	if err != nil {
		i.logger.Warn("⚠️  Product fetch failed", zap.Error(err))
		return err
	}

	i.mu.Lock()
	defer i.mu.Unlock()
	if i.unmounted {
		return ErrItemUnmounted
	}
	i.view = view
	i.loading = false
	return nil
}

// Mount starts loading in the background. Mounting twice is a no-op.
func (i *ProductListItem) Mount(ctx context.Context) {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done != nil || i.unmounted {
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})
	i.cancel = cancel
	i.done = done

	go func() {
		defer close(done)
		_ = i.Load(ctx)
	}()
}

// Wait blocks until a mounted fetch finishes
func (i *ProductListItem) Wait() {
	i.mu.Lock()
	done := i.done
	i.mu.Unlock()
	if done != nil {
		<-done
	}
}

// Unmount cancels an in-flight fetch and waits for it to return.
// A view that arrives after Unmount is never stored.
func (i *ProductListItem) Unmount() {
	i.mu.Lock()
	i.unmounted = true
	cancel, done := i.cancel, i.done
	i.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if done != nil {
		<-done
	}
}
