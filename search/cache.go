package search

import (
	"context"
	"log/slog"
	"sync"

	"github.com/poiesic/klartext/core"
)

// Loader produces the validated embedding table. Implementations typically
// wrap LoadArtifactFile; tests inject their own.
type Loader func(ctx context.Context) ([]*core.EmbeddingEntry, error)

// EmbeddingCache owns the semantic index's embedding table with an explicit
// lifecycle: lazy, at-most-once concurrent initialization; a failed load
// resets the state so a later call can retry. The loaded table is never
// handed out for mutation.
type EmbeddingCache struct {
	loader Loader
	logger *slog.Logger

	mu      sync.Mutex
	entries []*core.EmbeddingEntry
	ready   bool
	pending chan struct{}
	lastErr error
}

// CacheOption configures an EmbeddingCache.
type CacheOption func(*EmbeddingCache)

// WithCacheLogger sets a custom logger. Default is slog.Default().
func WithCacheLogger(logger *slog.Logger) CacheOption {
	return func(c *EmbeddingCache) {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
	}
}

// NewEmbeddingCache creates a cache around the given loader.
func NewEmbeddingCache(loader Loader, opts ...CacheOption) (*EmbeddingCache, error) {
	if loader == nil {
		return nil, ErrLoaderRequired
	}
	c := &EmbeddingCache{
		loader: loader,
		logger: slog.Default().With("component", "embedding-cache"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Init loads the embedding table if it is not loaded yet. Concurrent callers
// before the first load share one in-flight load operation rather than
// triggering duplicate loads; waiters on a failed load receive that load's
// error, and the next Init call attempts a fresh load.
func (c *EmbeddingCache) Init(ctx context.Context) error {
	c.mu.Lock()
	for {
		if c.ready {
			c.mu.Unlock()
			return nil
		}
		if c.pending == nil {
			break
		}
		ch := c.pending
		c.mu.Unlock()
		select {
		case <-ch:
		case <-ctx.Done():
			return ctx.Err()
		}
		c.mu.Lock()
		if !c.ready && c.pending == nil {
			err := c.lastErr
			c.mu.Unlock()
			return err
		}
	}

	ch := make(chan struct{})
	c.pending = ch
	c.mu.Unlock()

	entries, err := c.loader(ctx)

	c.mu.Lock()
	c.pending = nil
	if err != nil {
		c.lastErr = err
		c.mu.Unlock()
		close(ch)
		c.logger.Error("embedding table load failed", "err", err)
		return err
	}
	c.entries = entries
	c.ready = true
	c.mu.Unlock()
	close(ch)
	c.logger.Debug("embedding table loaded", "entries", len(entries))
	return nil
}

// IsReady reports whether the table is loaded and valid.
func (c *EmbeddingCache) IsReady() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ready
}

// Reset drops the loaded table so the next Init performs a fresh load.
func (c *EmbeddingCache) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = nil
	c.ready = false
	c.lastErr = nil
}

// loadedEntries returns the loaded table for read-only iteration within the
// package, or nil when not ready.
func (c *EmbeddingCache) loadedEntries() []*core.EmbeddingEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.ready {
		return nil
	}
	return c.entries
}

// Len returns the number of loaded entries, or 0 when not ready.
func (c *EmbeddingCache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
