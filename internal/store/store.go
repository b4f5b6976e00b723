// Package store holds the per-entity collection caches. A Collection is the
// only shared mutable state in the gateway: refreshed wholesale by a single
// writer, never patched in place.
package store

import (
	"context"
	"sync"
	"time"
)

// Fetcher loads the full authoritative collection from upstream.
type Fetcher[T any] func(ctx context.Context) ([]T, error)

// Collection caches the last-fetched snapshot of one entity type.
// Refresh is the sole mutator; readers get copies and may subscribe to
// replacement broadcasts.
type Collection[T any] struct {
	fetch Fetcher[T]

	mu          sync.RWMutex
	items       []T
	loaded      bool
	refreshedAt time.Time
	subs        []chan struct{}

	loadMu sync.Mutex
}

func NewCollection[T any](fetch Fetcher[T]) *Collection[T] {
	return &Collection[T]{fetch: fetch}
}

// EnsureLoaded performs the initial fetch on first use. Concurrent callers
// single-flight behind a mutex and share one upstream call. A failed load is
// re-attempted on the next call, so read paths recover as soon as the
// upstream does.
func (c *Collection[T]) EnsureLoaded(ctx context.Context) error {
	if c.Loaded() {
		return nil
	}
	c.loadMu.Lock()
	defer c.loadMu.Unlock()
	if c.Loaded() {
		return nil
	}
	return c.Refresh(ctx)
}

// Refresh fetches the collection and replaces the snapshot wholesale.
// On fetch failure the previous snapshot is retained untouched.
func (c *Collection[T]) Refresh(ctx context.Context) error {
	items, err := c.fetch(ctx)
	if err != nil {
		return err
	}

	c.mu.Lock()
	c.items = items
	c.loaded = true
	c.refreshedAt = time.Now()
	subs := c.subs
	c.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- struct{}{}:
		default: // subscriber lagging, it will catch the next snapshot anyway
		}
	}
	return nil
}

// Snapshot returns a copy of the cached collection. The copy is the caller's
// to filter and sort; the cache itself is never handed out.
func (c *Collection[T]) Snapshot() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Loaded reports whether an initial fetch has succeeded.
func (c *Collection[T]) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// RefreshedAt returns the time of the last successful refresh (zero before
// the first one). Used by the health endpoint to report cache staleness.
func (c *Collection[T]) RefreshedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.refreshedAt
}

// Subscribe returns a channel that receives a signal after every snapshot
// replacement. Signals are best-effort; a slow subscriber misses ticks, not
// data, since it always reads the latest snapshot.
func (c *Collection[T]) Subscribe() <-chan struct{} {
	ch := make(chan struct{}, 1)
	c.mu.Lock()
	c.subs = append(c.subs, ch)
	c.mu.Unlock()
	return ch
}
